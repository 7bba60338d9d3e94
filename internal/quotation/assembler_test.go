package quotation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapquote/internal/domain"
	"snapquote/internal/quotation"
)

func ptr[T any](v T) *T { return &v }

func TestAssemble_RecomputesTotals(t *testing.T) {
	items := []domain.LineItem{
		{ItemNumber: 1, ItemName: "Tape", Quantity: 2, UnitPrice: 100, DiscountPercent: 10},
	}

	q := quotation.Assemble(items, 5, 18, domain.QuotationMeta{CustomerName: "Sharma Traders"})

	assert.InDelta(t, 180.0, q.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 9.0, q.Totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 30.78, q.Totals.TaxAmount, 1e-9)
	assert.InDelta(t, 201.78, q.Totals.GrandTotal, 1e-9)
	assert.Equal(t, "Sharma Traders", q.Meta.CustomerName)
}

func TestAssemble_FillsZeroLineTaxRate(t *testing.T) {
	items := []domain.LineItem{
		{ItemNumber: 1, TaxRatePercent: 0},
		{ItemNumber: 2, TaxRatePercent: 12},
	}

	q := quotation.Assemble(items, 0, 18, domain.QuotationMeta{})

	assert.Equal(t, 18.0, q.Items[0].TaxRatePercent)
	assert.Equal(t, 12.0, q.Items[1].TaxRatePercent)
}

func TestAssemble_AllowsEmptyItems(t *testing.T) {
	q := quotation.Assemble(nil, 0, 18, domain.QuotationMeta{})

	assert.Empty(t, q.Items)
	assert.Zero(t, q.Totals.GrandTotal)
}

func TestFinalize_RejectsEmptyQuotation(t *testing.T) {
	q := quotation.Assemble(nil, 0, 18, domain.QuotationMeta{})

	err := quotation.Finalize(q)
	require.ErrorIs(t, err, domain.ErrEmptyQuotation)
}

func TestFinalize_AcceptsNonEmpty(t *testing.T) {
	q := quotation.Assemble([]domain.LineItem{{ItemNumber: 1, ItemName: "Tape"}}, 0, 18, domain.QuotationMeta{})

	assert.NoError(t, quotation.Finalize(q))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		item domain.LineItem
		want string
	}{
		{"name only", domain.LineItem{ItemName: "Teflon Tape"}, "Teflon Tape"},
		{"code and name", domain.LineItem{ItemID: ptr("SKU-100"), ItemName: "Teflon Tape"}, "SKU-100 Teflon Tape"},
		{"code only", domain.LineItem{ItemID: ptr("SKU-100")}, "SKU-100"},
		{"empty", domain.LineItem{}, "Empty Row"},
		{"empty code ignored", domain.LineItem{ItemID: ptr(""), ItemName: "Tape"}, "Tape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quotation.DisplayName(&tt.item))
		})
	}
}

func TestNumberFor(t *testing.T) {
	ts := time.Date(2025, 1, 15, 14, 32, 12, 0, time.UTC)
	assert.Equal(t, "QT-20250115-143212", quotation.NumberFor("QT", ts))
}
