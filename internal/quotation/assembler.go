// Package quotation assembles the final, presentation-ready document
// consumed by the rendering collaborators (XLSX export, email, the mobile
// client's PDF view).
package quotation

import (
	"fmt"
	"time"

	"snapquote/internal/domain"
	"snapquote/internal/pricing"
)

// Assemble builds a Quotation from merged items and document-level rates.
// Totals are recomputed here rather than accepted from the caller, so an
// assembled quotation can never carry stale aggregates. An empty item list
// is a valid editing state, so Assemble allows it; Finalize does not.
func Assemble(items []domain.LineItem, globalDiscountPercent, taxRatePercent float64, meta domain.QuotationMeta) *domain.Quotation {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].TaxRatePercent == 0 {
			out[i].TaxRatePercent = taxRatePercent
		}
	}
	return &domain.Quotation{
		Items:                 out,
		Totals:                pricing.ComputeTotals(out, globalDiscountPercent, taxRatePercent),
		GlobalDiscountPercent: globalDiscountPercent,
		TaxRatePercent:        taxRatePercent,
		Meta:                  meta,
	}
}

// Finalize validates that the quotation is a valid output document.
func Finalize(q *domain.Quotation) error {
	if len(q.Items) == 0 {
		return domain.ErrEmptyQuotation
	}
	return nil
}

// DisplayName resolves the name shown for a line. Empty names are stored
// empty to keep the data model honest; the placeholder appears only here,
// at the render boundary. A line with a catalog code shows "code name".
func DisplayName(item *domain.LineItem) string {
	name := item.ItemName
	if item.ItemID != nil && *item.ItemID != "" {
		if name != "" {
			return fmt.Sprintf("%s %s", *item.ItemID, name)
		}
		return *item.ItemID
	}
	if name == "" {
		return "Empty Row"
	}
	return name
}

// NumberFor generates a quotation number from a prefix and timestamp,
// e.g. "QT-20250115-143212".
func NumberFor(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.Format("20060102-150405"))
}
