// Package pricing derives all monetary aggregates of a quotation. It owns
// no state: totals are a pure function of the merged line items and the
// document-level rates, recomputed on every change instead of cached.
package pricing

import (
	"math"

	"snapquote/internal/domain"
)

// LineNet returns the discounted net amount for a single line:
// unitPrice * quantity * (1 - discountPercent/100). Zero quantity or price
// yields 0; non-finite inputs are treated as 0 so one corrupt line cannot
// poison the document.
func LineNet(item *domain.LineItem) float64 {
	net := sanitize(item.UnitPrice) * sanitize(item.Quantity) * (1 - sanitize(item.DiscountPercent)/100)
	return sanitize(net)
}

// ComputeTotals derives subtotal, global discount amount, tax amount, and
// grand total. All arithmetic stays in full float64 precision; rounding to
// two decimals is a presentation concern and never happens here, so the
// same inputs always reproduce the same totals bit for bit.
func ComputeTotals(items []domain.LineItem, globalDiscountPercent, taxRatePercent float64) domain.QuotationTotals {
	subtotal := 0.0
	for i := range items {
		subtotal += LineNet(&items[i])
	}
	subtotal = sanitize(subtotal)

	discountAmount := sanitize(subtotal * sanitize(globalDiscountPercent) / 100)
	afterDiscount := subtotal - discountAmount
	taxAmount := sanitize(afterDiscount * sanitize(taxRatePercent) / 100)

	return domain.QuotationTotals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		GrandTotal:     afterDiscount + taxAmount,
	}
}

// ClampNonNegative clamps negative values to 0 and reports whether a clamp
// occurred, so the edit boundary can tell the caller instead of silently
// coercing.
func ClampNonNegative(v float64) (float64, bool) {
	v = sanitize(v)
	if v < 0 {
		return 0, true
	}
	return v, false
}

// ClampPercent clamps to the 0–100 range and reports whether a clamp
// occurred.
func ClampPercent(v float64) (float64, bool) {
	v = sanitize(v)
	if v < 0 {
		return 0, true
	}
	if v > 100 {
		return 100, true
	}
	return v, false
}

// Round2 rounds to two decimal places. Presentation-time only: renderers
// call it when formatting, totals in the data model stay unrounded.
func Round2(v float64) float64 {
	return math.Round(sanitize(v)*100) / 100
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
