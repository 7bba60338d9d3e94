package overlay

import (
	"sort"

	"snapquote/internal/domain"
)

// Merge overlays edit records onto base items and returns a new slice; it
// is pure and safe to re-run on every keystroke. Output order is base
// order, followed by standalone rows in ascending item-number order.
//
// Re-applying the same overlay to its own output changes nothing: a
// standalone row that has already been materialized matches its record by
// key and is overlaid in place rather than appended again.
func Merge(base []domain.LineItem, edits map[int]domain.EditRecord) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(base)+len(edits))
	seen := make(map[int]bool, len(base))

	for i := range base {
		item := base[i]
		seen[item.ItemNumber] = true
		if rec, ok := edits[item.ItemNumber]; ok {
			applyRecord(&item, rec)
		}
		out = append(out, item)
	}

	var extra []domain.LineItem
	for num, rec := range edits {
		if seen[num] || !rec.Standalone {
			continue
		}
		item := domain.LineItem{ItemNumber: num}
		applyRecord(&item, rec)
		extra = append(extra, item)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].ItemNumber < extra[j].ItemNumber })

	return append(out, extra...)
}

func applyRecord(item *domain.LineItem, rec domain.EditRecord) {
	if rec.Name != nil {
		item.ItemName = *rec.Name
	}
	if rec.Quantity != nil {
		item.Quantity = *rec.Quantity
	}
	if rec.UnitPrice != nil {
		item.UnitPrice = *rec.UnitPrice
	}
	if rec.DiscountPercent != nil {
		item.DiscountPercent = *rec.DiscountPercent
	}
}
