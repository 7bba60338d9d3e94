package matcher

import "snapquote/internal/domain"

// Apply folds ranked candidates into the base items and returns a new
// slice; the input is not mutated. For each item with at least one
// candidate, the top-ranked candidate populates itemId, itemName,
// unitPrice, brand, and discountPercent; all candidates are retained on
// the line for manual override. Items with no candidates keep unit price 0
// and a nil itemId, and still appear in the output — an unmatched row is a
// quotable row, not an error.
//
// Apply never touches the edit overlay: a later user edit always wins over
// auto-selection because merging happens downstream of this fold.
func Apply(items []domain.LineItem, candidates map[int][]domain.MatchCandidate) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	for i := range out {
		ranked := candidates[out[i].ItemNumber]
		if len(ranked) == 0 {
			out[i].Candidates = nil
			continue
		}
		top := ranked[0]
		out[i].ItemID = top.ItemID
		out[i].ItemName = top.ItemName
		if top.ItemDescription != nil {
			out[i].ItemDescription = top.ItemDescription
		}
		out[i].UnitPrice = top.Price
		out[i].Brand = top.Brand
		out[i].DiscountPercent = top.DefaultDiscount
		out[i].Candidates = ranked
	}
	return out
}
