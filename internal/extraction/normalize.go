package extraction

import (
	"strings"

	"snapquote/internal/domain"
)

// Normalize converts a raw extraction into canonical line items.
//
// Item numbers are assigned sequentially from 1, strictly following input
// order, so the same raw input always yields the same assignment. Item
// numbers the OCR service itself claims to have seen are ignored; the
// session-stable identity is ours to assign. Malformed rows degrade to
// partial items (empty name, zero quantity) rather than failing the batch.
func Normalize(raw *RawExtraction, defaultTaxRatePercent float64) []domain.LineItem {
	if raw == nil {
		return []domain.LineItem{}
	}
	items := make([]domain.LineItem, 0, len(raw.Products))
	for i := range raw.Products {
		p := &raw.Products[i]
		items = append(items, domain.LineItem{
			ItemNumber:      len(items) + 1,
			ItemID:          cloneString(p.ItemID),
			ItemName:        strings.TrimSpace(p.ItemName),
			ItemDescription: cloneString(p.ItemDescription),
			Quantity:        p.ItemQuantity.Value(),
			UnitPrice:       0,
			DiscountPercent: 0,
			TaxRatePercent:  defaultTaxRatePercent,
		})
	}
	return items
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
