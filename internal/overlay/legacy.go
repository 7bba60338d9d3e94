package overlay

import (
	"sort"

	"snapquote/internal/domain"
)

// Legacy compatibility: early app versions keyed the overlay by item name
// instead of item number, which breaks when two lines share a name or OCR
// reorders rows between runs. Item number is canonical everywhere else in
// this codebase; this shim exists only to upgrade persisted sessions from
// the old format on load and must not grow new callers.

// RekeyByName converts a name-keyed overlay into an item-number-keyed one
// by resolving each name against the base items. When several base items
// share a name, the first occurrence wins, matching the old lookup
// behavior. Records whose name matches no base item become standalone rows
// numbered after the last base item.
func RekeyByName(base []domain.LineItem, byName map[string]domain.EditRecord) map[int]domain.EditRecord {
	numberByName := make(map[string]int, len(base))
	max := 0
	for i := range base {
		if _, ok := numberByName[base[i].ItemName]; !ok {
			numberByName[base[i].ItemName] = base[i].ItemNumber
		}
		if base[i].ItemNumber > max {
			max = base[i].ItemNumber
		}
	}

	out := make(map[int]domain.EditRecord, len(byName))
	var unmatched []string
	for name, rec := range byName {
		if num, ok := numberByName[name]; ok {
			rec.ItemNumber = num
			rec.Standalone = false
			out[num] = rec
			continue
		}
		unmatched = append(unmatched, name)
	}

	// Deterministic numbering for rows the old format stored by name only.
	sort.Strings(unmatched)
	next := max + 1
	for _, name := range unmatched {
		rec := byName[name]
		rec.ItemNumber = next
		rec.Standalone = true
		if rec.Name == nil {
			n := name
			rec.Name = &n
		}
		out[next] = rec
		next++
	}
	return out
}
