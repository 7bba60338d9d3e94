package pricing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"snapquote/internal/domain"
	"snapquote/internal/pricing"
)

func item(qty, price, disc float64) domain.LineItem {
	return domain.LineItem{Quantity: qty, UnitPrice: price, DiscountPercent: disc}
}

func TestLineNet(t *testing.T) {
	tests := []struct {
		name string
		item domain.LineItem
		want float64
	}{
		{"plain", item(2, 100, 0), 200},
		{"with line discount", item(2, 100, 10), 180},
		{"zero quantity", item(0, 100, 10), 0},
		{"zero price", item(5, 0, 0), 0},
		{"full discount", item(3, 50, 100), 0},
		{"nan price", item(2, math.NaN(), 0), 0},
		{"inf quantity", item(math.Inf(1), 100, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.LineNet(&tt.item)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeTotals_Order(t *testing.T) {
	// 100 x 2 at 10% line discount = 180 net; 5% global discount, 18% GST.
	items := []domain.LineItem{item(2, 100, 10)}

	totals := pricing.ComputeTotals(items, 5, 18)

	assert.InDelta(t, 180.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 9.0, totals.DiscountAmount, 1e-9)
	assert.InDelta(t, 30.78, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 201.78, totals.GrandTotal, 1e-9)
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals := pricing.ComputeTotals(nil, 5, 18)

	assert.Zero(t, totals.Subtotal)
	assert.Zero(t, totals.DiscountAmount)
	assert.Zero(t, totals.TaxAmount)
	assert.Zero(t, totals.GrandTotal)
}

func TestComputeTotals_Deterministic(t *testing.T) {
	items := []domain.LineItem{
		item(3, 33.33, 7.5),
		item(1, 0.1, 0),
		item(12, 249.99, 2),
	}

	a := pricing.ComputeTotals(items, 12.5, 18)
	b := pricing.ComputeTotals(items, 12.5, 18)

	assert.Equal(t, a, b)
}

func TestComputeTotals_CorruptLineDoesNotPoison(t *testing.T) {
	items := []domain.LineItem{
		item(2, 100, 0),
		item(math.NaN(), math.Inf(1), 0),
	}

	totals := pricing.ComputeTotals(items, 0, 18)

	assert.InDelta(t, 200.0, totals.Subtotal, 1e-9)
	assert.False(t, math.IsNaN(totals.GrandTotal))
}

func TestClampNonNegative(t *testing.T) {
	v, clamped := pricing.ClampNonNegative(-5)
	assert.Zero(t, v)
	assert.True(t, clamped)

	v, clamped = pricing.ClampNonNegative(3.5)
	assert.Equal(t, 3.5, v)
	assert.False(t, clamped)

	v, clamped = pricing.ClampNonNegative(math.NaN())
	assert.Zero(t, v)
	assert.False(t, clamped)
}

func TestClampPercent(t *testing.T) {
	v, clamped := pricing.ClampPercent(150)
	assert.Equal(t, 100.0, v)
	assert.True(t, clamped)

	v, clamped = pricing.ClampPercent(-1)
	assert.Zero(t, v)
	assert.True(t, clamped)

	v, clamped = pricing.ClampPercent(42)
	assert.Equal(t, 42.0, v)
	assert.False(t, clamped)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 30.78, pricing.Round2(30.779999999999998))
	assert.Equal(t, 0.0, pricing.Round2(math.NaN()))
	assert.Equal(t, 1.01, pricing.Round2(1.005000001))
}
