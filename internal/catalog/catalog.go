// Package catalog holds the static storefront product data keyed by gender
// and category.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Gender selects one half of the catalog.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

// ParseGender maps a button id such as "MEN" onto a Gender.
func ParseGender(id string) (Gender, bool) {
	switch id {
	case "MEN", "men":
		return GenderMen, true
	case "WOMEN", "women":
		return GenderWomen, true
	}
	return "", false
}

// Product is a purchasable item.
type Product struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Price Money  `yaml:"price"`
}

type category struct {
	Key      string    `yaml:"key"`
	Products []Product `yaml:"products"`
}

type section struct {
	Gender     Gender     `yaml:"gender"`
	Categories []category `yaml:"categories"`
}

type document struct {
	Currency string    `yaml:"currency"`
	Genders  []section `yaml:"genders"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	currency string
	order    map[Gender][]string
	products map[Gender]map[string][]Product
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for package initialisation and tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from its YAML form.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		currency: doc.Currency,
		order:    make(map[Gender][]string),
		products: make(map[Gender]map[string][]Product),
	}

	seen := make(map[string]bool)
	for _, sec := range doc.Genders {
		if _, ok := ParseGender(string(sec.Gender)); !ok {
			return nil, fmt.Errorf("unknown gender %q in catalog", sec.Gender)
		}
		if c.products[sec.Gender] == nil {
			c.products[sec.Gender] = make(map[string][]Product)
		}
		for _, cat := range sec.Categories {
			if _, dup := c.products[sec.Gender][cat.Key]; dup {
				return nil, fmt.Errorf("duplicate category %q for %s", cat.Key, sec.Gender)
			}
			for _, p := range cat.Products {
				if p.ID == "" || seen[p.ID] {
					return nil, fmt.Errorf("missing or duplicate product id %q", p.ID)
				}
				if p.Price <= 0 {
					return nil, fmt.Errorf("product %s has non-positive price", p.ID)
				}
				seen[p.ID] = true
			}
			c.order[sec.Gender] = append(c.order[sec.Gender], cat.Key)
			c.products[sec.Gender][cat.Key] = cat.Products
		}
	}

	return c, nil
}

// Currency returns the display currency code.
func (c *Catalog) Currency() string {
	return c.currency
}

// Categories lists the category keys for a gender in catalog order.
func (c *Catalog) Categories(g Gender) []string {
	return append([]string(nil), c.order[g]...)
}

// HasCategory reports whether the category exists for the gender.
func (c *Catalog) HasCategory(g Gender, category string) bool {
	_, ok := c.products[g][category]
	return ok
}

// ProductsFor returns the products of a category, or nil when it is unknown.
func (c *Catalog) ProductsFor(g Gender, category string) []Product {
	return append([]Product(nil), c.products[g][category]...)
}

// FindProduct looks up a product id within a gender and category.
func (c *Catalog) FindProduct(g Gender, category, id string) (Product, bool) {
	for _, p := range c.products[g][category] {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FormatPrice renders an amount with the catalog currency, e.g. "50.00 LYD".
func (c *Catalog) FormatPrice(m Money) string {
	if c.currency == "" {
		return m.String()
	}
	return m.String() + " " + c.currency
}
