package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{"perfumes", "deodorants", "body sprays"}, c.Categories(GenderMen))
	assert.Equal(t, []string{"perfumes", "deodorants", "body sprays"}, c.Categories(GenderWomen))
	assert.Len(t, c.ProductsFor(GenderWomen, "deodorants"), 3)

	p, ok := c.FindProduct(GenderMen, "perfumes", "1")
	require.True(t, ok)
	assert.Equal(t, "XYZ Cologne", p.Name)
	assert.Equal(t, Money(5000), p.Price)
}

func TestFindProductScopedToCategory(t *testing.T) {
	c := MustDefault()

	_, ok := c.FindProduct(GenderMen, "deodorants", "1")
	assert.False(t, ok)

	_, ok = c.FindProduct(GenderWomen, "perfumes", "1")
	assert.False(t, ok)

	_, ok = c.FindProduct(GenderMen, "shoes", "1")
	assert.False(t, ok)
	assert.False(t, c.HasCategory(GenderMen, "shoes"))
	assert.Nil(t, c.ProductsFor(GenderMen, "shoes"))
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	data := []byte(`
genders:
  - gender: men
    categories:
      - key: a
        products:
          - { id: "1", name: "x", price: "1.00" }
      - key: b
        products:
          - { id: "1", name: "y", price: "2.00" }
`)
	_, err := Parse(data)
	assert.Error(t, err)
}

func TestParseAllowsEmptyCategory(t *testing.T) {
	data := []byte(`
currency: LYD
genders:
  - gender: women
    categories:
      - key: gift sets
        products: []
`)
	c, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, c.HasCategory(GenderWomen, "gift sets"))
	assert.Empty(t, c.ProductsFor(GenderWomen, "gift sets"))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    Money
		wantErr bool
	}{
		{"50", 5000, false},
		{"50.5", 5050, false},
		{"50.05", 5005, false},
		{"0.99", 99, false},
		{"-3.10", -310, false},
		{"", 0, true},
		{"1.234", 0, true},
		{"abc", 0, true},
		{"5.", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyFormatting(t *testing.T) {
	assert.Equal(t, "100.00", Money(10000).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.50", Money(-150).String())
	assert.Equal(t, Money(15000), Money(5000).Times(3))
	assert.Equal(t, "50.00 LYD", MustDefault().FormatPrice(5000))
}

func TestCheckedArithmetic(t *testing.T) {
	got, ok := Money(5000).CheckedTimes(3)
	assert.True(t, ok)
	assert.Equal(t, Money(15000), got)

	_, ok = Money(5000).CheckedTimes(999999999999999999)
	assert.False(t, ok)

	got, ok = Money(0).CheckedTimes(999999999999999999)
	assert.True(t, ok)
	assert.Zero(t, got)

	got, ok = Money(math.MaxInt64 - 1).CheckedAdd(1)
	assert.True(t, ok)
	assert.Equal(t, Money(math.MaxInt64), got)

	_, ok = Money(math.MaxInt64).CheckedAdd(1)
	assert.False(t, ok)
	_, ok = Money(math.MinInt64).CheckedAdd(-1)
	assert.False(t, ok)
}
