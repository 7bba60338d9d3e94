package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"snapquote/internal/domain"
	"snapquote/internal/pricing"
	"snapquote/internal/quotation"
)

const sheetName = "Quotation"

// QuotationXLSX renders a quotation as an XLSX workbook and returns its bytes.
// All monetary cells are rounded to two decimals here, at the rendering
// boundary.
func QuotationXLSX(q *domain.Quotation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	set := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}

	row := 1
	if q.Meta.CompanyName != "" {
		set(1, row, q.Meta.CompanyName)
		row++
	}
	if q.Meta.QuotationNumber != "" {
		set(1, row, "Quotation No")
		set(2, row, q.Meta.QuotationNumber)
		row++
	}
	set(1, row, "Date")
	set(2, row, q.Meta.Date.Format("2006-01-02"))
	row++
	if q.Meta.CustomerName != "" {
		set(1, row, "Customer")
		set(2, row, q.Meta.CustomerName)
		row++
	}
	row++

	headers := []string{"No", "Item", "Description", "Qty", "Unit Price", "Discount %", "Line Total"}
	for i, h := range headers {
		set(i+1, row, h)
	}
	row++

	for i := range q.Items {
		item := &q.Items[i]
		desc := ""
		if item.ItemDescription != nil {
			desc = *item.ItemDescription
		}
		set(1, row, item.ItemNumber)
		set(2, row, quotation.DisplayName(item))
		set(3, row, desc)
		set(4, row, item.Quantity)
		set(5, row, pricing.Round2(item.UnitPrice))
		set(6, row, item.DiscountPercent)
		set(7, row, pricing.Round2(pricing.LineNet(item)))
		row++
	}
	row++

	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", q.Totals.Subtotal},
		{fmt.Sprintf("Discount (%g%%)", q.GlobalDiscountPercent), q.Totals.DiscountAmount},
		{fmt.Sprintf("GST (%g%%)", q.TaxRatePercent), q.Totals.TaxAmount},
		{"Grand Total", q.Totals.GrandTotal},
	}
	for _, t := range totals {
		set(6, row, t.label)
		set(7, row, pricing.Round2(t.value))
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
