// Package overlay holds user edits layered over extracted and matched line
// items. The store is the single mutable source of truth for user intent;
// base items stay immutable for a given extraction run and the two sides
// are combined by Merge.
package overlay

import (
	"sort"
	"sync"

	"snapquote/internal/domain"
)

// Patch is a partial edit. Nil fields mean "keep whatever the most recent
// stored record has for this key" — not "reset to the base item".
type Patch struct {
	Name            *string
	Quantity        *float64
	UnitPrice       *float64
	DiscountPercent *float64
}

// Store is a last-write-per-key edit store. A single mutex guards the
// read-modify-write pair around upserts; merge reads work on snapshots.
type Store struct {
	mu             sync.Mutex
	edits          map[int]domain.EditRecord
	nextStandalone int
}

// NewStore creates an empty overlay store.
func NewStore() *Store {
	return &Store{edits: make(map[int]domain.EditRecord), nextStandalone: 1}
}

// EnsureFloor raises the synthesized-identity counter so standalone rows
// never collide with extracted item numbers. Called after each extraction
// run with the highest assigned item number.
func (s *Store) EnsureFloor(maxItemNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextStandalone <= maxItemNumber {
		s.nextStandalone = maxItemNumber + 1
	}
}

// RealignStandalones moves standalone rows whose synthesized numbers fall
// at or below maxItemNumber to fresh numbers above it, preserving their
// relative order. A row added before an extraction would otherwise share a
// number with an extracted item and be merged into it. Called after each
// extraction run with the highest assigned item number.
func (s *Store) RealignStandalones(maxItemNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nextStandalone <= maxItemNumber {
		s.nextStandalone = maxItemNumber + 1
	}

	var colliding []int
	for num, rec := range s.edits {
		if rec.Standalone && num <= maxItemNumber {
			colliding = append(colliding, num)
		}
	}
	sort.Ints(colliding)
	for _, num := range colliding {
		rec := s.edits[num]
		delete(s.edits, num)
		rec.ItemNumber = s.nextStandalone
		s.nextStandalone++
		s.edits[rec.ItemNumber] = rec
	}
}

// UpsertEdit replaces the record stored at itemNumber with the patch,
// falling back to previously stored values for fields the patch omits.
// Calling it twice with the same arguments leaves exactly one record.
func (s *Store) UpsertEdit(itemNumber int, patch Patch) domain.EditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.edits[itemNumber]
	rec.ItemNumber = itemNumber
	if patch.Name != nil {
		rec.Name = patch.Name
	}
	if patch.Quantity != nil {
		rec.Quantity = patch.Quantity
	}
	if patch.UnitPrice != nil {
		rec.UnitPrice = patch.UnitPrice
	}
	if patch.DiscountPercent != nil {
		rec.DiscountPercent = patch.DiscountPercent
	}
	s.edits[itemNumber] = rec
	return rec
}

// AddStandalone creates a user-added row with a synthesized identity and
// returns its record. Standalone rows surface after all extracted rows.
func (s *Store) AddStandalone(patch Patch) domain.EditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	num := s.nextStandalone
	s.nextStandalone++

	rec := domain.EditRecord{
		ItemNumber:      num,
		Name:            patch.Name,
		Quantity:        patch.Quantity,
		UnitPrice:       patch.UnitPrice,
		DiscountPercent: patch.DiscountPercent,
		Standalone:      true,
	}
	s.edits[num] = rec
	return rec
}

// Snapshot returns a copy of the stored records, safe to merge against
// while edits continue.
func (s *Store) Snapshot() map[int]domain.EditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]domain.EditRecord, len(s.edits))
	for k, v := range s.edits {
		out[k] = v
	}
	return out
}

// Replace swaps in a full overlay, used when restoring a persisted session.
func (s *Store) Replace(edits map[int]domain.EditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edits = make(map[int]domain.EditRecord, len(edits))
	max := 0
	for k, v := range edits {
		v.ItemNumber = k
		s.edits[k] = v
		if k > max {
			max = k
		}
	}
	if s.nextStandalone <= max {
		s.nextStandalone = max + 1
	}
}

// Reset clears every record. Only an explicit session reset does this.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edits = make(map[int]domain.EditRecord)
	s.nextStandalone = 1
}
