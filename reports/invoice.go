// Package reports renders orders and analytics as downloadable documents.
package reports

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/nocturnelux/storefront/models"
	"github.com/shopspring/decimal"
)

// Invoice renders an order with its items as an A4 PDF.
func Invoice(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(100, 10, "NOCTURNELUX")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(100, 6, "Luxury Gothic Fashion | support@nocturnelux.com")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(70, 7, "Order: #"+order.Reference())
	pdf.Cell(70, 7, "Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(70, 7, "Payment: "+order.PaymentMethod)
	pdf.Cell(70, 7, "Status: "+order.Status)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(100, 7, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		order.ShippingName,
		order.ShippingAddr,
		fmt.Sprintf("%s, %s %s", order.ShippingCity, order.ShippingState, order.ShippingPin),
		"Phone: " + order.ShippingPhone,
	} {
		pdf.Cell(150, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Size", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		size := item.Size
		if size == "" {
			size = "-"
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.CellFormat(80, 8, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, lineTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	totals := []struct {
		label string
		value string
	}{
		{"Subtotal:", order.Subtotal.StringFixed(2)},
		{discountLabel(order), "-" + order.Discount.StringFixed(2)},
		{"Total:", order.Total.StringFixed(2)},
	}
	for i, t := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 12)
		pdf.CellFormat(150, 8, t.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, t.value, "", 1, "R", false, 0, "")
	}
	if order.TrackingNumber != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(100, 7, "Tracking number: "+order.TrackingNumber)
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.Cell(0, 8, "Thank you for shopping with NocturneLux.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func discountLabel(order *models.Order) string {
	if order.CouponCode != "" {
		return "Discount (" + order.CouponCode + "):"
	}
	return "Discount:"
}
