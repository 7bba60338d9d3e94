package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"snapquote/internal/domain"
	"snapquote/internal/export"
	"snapquote/internal/quotation"
)

func TestQuotationXLSX(t *testing.T) {
	sku := "SKU-100"
	items := []domain.LineItem{
		{ItemNumber: 1, ItemID: &sku, ItemName: "Teflon Tape", Quantity: 2, UnitPrice: 100, DiscountPercent: 10},
		{ItemNumber: 2, ItemName: "Mystery Part", Quantity: 3},
	}
	q := quotation.Assemble(items, 5, 18, domain.QuotationMeta{
		Date:            time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		QuotationNumber: "QT-20250115-143212",
		CustomerName:    "Sharma Traders",
		CompanyName:     "Patel Hardware",
	})

	data, err := export.QuotationXLSX(q)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Quotation")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	flat := make(map[string]bool)
	for _, row := range rows {
		for _, cell := range row {
			flat[cell] = true
		}
	}

	assert.True(t, flat["Patel Hardware"])
	assert.True(t, flat["QT-20250115-143212"])
	assert.True(t, flat["Sharma Traders"])
	assert.True(t, flat["SKU-100 Teflon Tape"])
	assert.True(t, flat["Mystery Part"])
	assert.True(t, flat["Grand Total"])
}

func TestQuotationXLSX_EmptyQuotation(t *testing.T) {
	q := quotation.Assemble(nil, 0, 18, domain.QuotationMeta{Date: time.Now()})

	data, err := export.QuotationXLSX(q)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
