package reports

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/nocturnelux/storefront/services"
	"github.com/tealeg/xlsx"
)

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

func addHeader(sheet *xlsx.Sheet, headers ...string) {
	row := sheet.AddRow()
	style := boldStyle()
	for _, h := range headers {
		cell := row.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}
}

// AnalyticsWorkbook renders the dashboard summary as an .xlsx file.
func AnalyticsWorkbook(a *services.Analytics) ([]byte, error) {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return nil, fmt.Errorf("add summary sheet: %w", err)
	}
	addHeader(summary, "Metric", "Value")
	revenue, _ := a.TotalRevenue.Round(2).Float64()
	row := summary.AddRow()
	row.AddCell().SetString("Total Revenue")
	row.AddCell().SetFloat(revenue)
	row = summary.AddRow()
	row.AddCell().SetString("Total Orders")
	row.AddCell().SetInt(a.TotalOrders)
	row = summary.AddRow()
	row.AddCell().SetString("Total Customers")
	row.AddCell().SetInt(a.TotalCustomers)

	top, err := file.AddSheet("Top Products")
	if err != nil {
		return nil, fmt.Errorf("add top products sheet: %w", err)
	}
	addHeader(top, "Product ID", "Name", "Units Sold", "Revenue")
	for _, p := range a.TopProducts {
		r := top.AddRow()
		r.AddCell().SetString(p.ProductID)
		r.AddCell().SetString(p.Name)
		r.AddCell().SetInt(p.UnitsSold)
		v, _ := p.Revenue.Round(2).Float64()
		r.AddCell().SetFloat(v)
	}

	days, err := file.AddSheet("Last 7 Days")
	if err != nil {
		return nil, fmt.Errorf("add daily sheet: %w", err)
	}
	addHeader(days, "Date", "Orders", "Revenue")
	for _, d := range a.Last7Days {
		r := days.AddRow()
		r.AddCell().SetString(d.Date)
		r.AddCell().SetInt(d.Orders)
		v, _ := d.Revenue.Round(2).Float64()
		r.AddCell().SetFloat(v)
	}

	status, err := file.AddSheet("Status")
	if err != nil {
		return nil, fmt.Errorf("add status sheet: %w", err)
	}
	addHeader(status, "Status", "Orders")
	keys := make([]string, 0, len(a.OrdersByStatus))
	for k := range a.OrdersByStatus {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r := status.AddRow()
		r.AddCell().SetString(k)
		r.AddCell().SetInt(a.OrdersByStatus[k])
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
