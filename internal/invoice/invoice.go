// Package invoice renders order invoices as PDF files.
package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/models"

	"github.com/go-pdf/fpdf"
)

// Generator writes one PDF per order into its directory.
type Generator struct {
	dir       string
	storeName string
	format    func(catalog.Money) string
	compress  bool
}

// NewGenerator creates a generator. format renders amounts, e.g. the
// catalog's FormatPrice.
func NewGenerator(dir, storeName string, format func(catalog.Money) string) *Generator {
	if format == nil {
		format = catalog.Money.String
	}
	return &Generator{dir: dir, storeName: storeName, format: format, compress: true}
}

// Path returns where the invoice for number is written.
func (g *Generator) Path(number string) string {
	return filepath.Join(g.dir, "invoice_"+number+".pdf")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Generate renders the invoice and returns the file path.
func (g *Generator) Generate(order *models.Order, items []models.OrderItem) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetTitle("Invoice "+order.OrderNumber, true)
	pdf.SetCreator(g.storeName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(g.storeName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Order number: " + order.OrderNumber,
		"Date: " + order.CreatedAt.Format("2006-01-02 15:04"),
		"Customer name: " + order.CustomerName,
		"Phone: " + order.UserID,
	} {
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
	for _, line := range []string{
		"Delivery address: " + orNA(order.DeliveryAddress),
		"Delivery location: " + orNA(order.DeliveryLocation),
		"Billing address: " + orNA(order.BillingAddress),
	} {
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(130, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	var total catalog.Money
	for _, it := range items {
		unit := catalog.Money(it.UnitPrice)
		sub := unit.Times(it.Quantity)
		total += sub
		desc := fmt.Sprintf("%d x %s @ %s", it.Quantity, it.ProductName, g.format(unit))
		pdf.CellFormat(130, 7, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, g.format(sub), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(130, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(0, 8, g.format(total), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Payment: cash on delivery", "", 1, "L", false, 0, "")

	path := g.Path(order.OrderNumber)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write invoice %s: %w", order.OrderNumber, err)
	}
	return path, nil
}
