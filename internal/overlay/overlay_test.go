package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapquote/internal/domain"
	"snapquote/internal/overlay"
)

func ptr[T any](v T) *T { return &v }

func baseItems() []domain.LineItem {
	return []domain.LineItem{
		{ItemNumber: 1, ItemName: "PVC Elbow", Quantity: 10, UnitPrice: 12},
		{ItemNumber: 2, ItemName: "Teflon Tape", Quantity: 20, UnitPrice: 3},
		{ItemNumber: 3, ItemName: "Ball Valve", Quantity: 2, UnitPrice: 150},
	}
}

func TestStore_UpsertEdit_SuccessiveFieldsAccumulate(t *testing.T) {
	s := overlay.NewStore()

	s.UpsertEdit(2, overlay.Patch{Quantity: ptr(5.0)})
	rec := s.UpsertEdit(2, overlay.Patch{UnitPrice: ptr(10.0)})

	require.NotNil(t, rec.Quantity)
	require.NotNil(t, rec.UnitPrice)
	assert.Equal(t, 5.0, *rec.Quantity)
	assert.Equal(t, 10.0, *rec.UnitPrice)
}

func TestStore_UpsertEdit_Idempotent(t *testing.T) {
	s := overlay.NewStore()

	first := s.UpsertEdit(1, overlay.Patch{Quantity: ptr(5.0)})
	second := s.UpsertEdit(1, overlay.Patch{Quantity: ptr(5.0)})

	assert.Equal(t, first, second)
	assert.Len(t, s.Snapshot(), 1)
}

func TestStore_AddStandalone_NumbersAfterFloor(t *testing.T) {
	s := overlay.NewStore()
	s.EnsureFloor(3)

	a := s.AddStandalone(overlay.Patch{Name: ptr("Pipe Wrench"), Quantity: ptr(1.0)})
	b := s.AddStandalone(overlay.Patch{Name: ptr("Hacksaw Blade")})

	assert.Equal(t, 4, a.ItemNumber)
	assert.Equal(t, 5, b.ItemNumber)
	assert.True(t, a.Standalone)
	assert.True(t, b.Standalone)
}

func TestStore_RealignStandalones_MovesRowsAddedBeforeExtraction(t *testing.T) {
	s := overlay.NewStore()

	a := s.AddStandalone(overlay.Patch{Name: ptr("Pipe Wrench"), Quantity: ptr(1.0)})
	b := s.AddStandalone(overlay.Patch{Name: ptr("Hacksaw Blade")})
	require.Equal(t, 1, a.ItemNumber)
	require.Equal(t, 2, b.ItemNumber)
	s.UpsertEdit(1, overlay.Patch{Quantity: ptr(4.0)})

	// An extraction then claims numbers 1..3 for its own items.
	s.RealignStandalones(3)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	require.Contains(t, snap, 4)
	require.Contains(t, snap, 5)
	assert.Equal(t, "Pipe Wrench", *snap[4].Name)
	assert.Equal(t, 4.0, *snap[4].Quantity)
	assert.Equal(t, "Hacksaw Blade", *snap[5].Name)
	assert.True(t, snap[4].Standalone)
	assert.NotContains(t, snap, 2)

	next := s.AddStandalone(overlay.Patch{Name: ptr("Teflon Tape")})
	assert.Equal(t, 6, next.ItemNumber)
}

func TestStore_RealignStandalones_LeavesRowsAboveTheRange(t *testing.T) {
	s := overlay.NewStore()
	s.EnsureFloor(3)
	rec := s.AddStandalone(overlay.Patch{Name: ptr("Pipe Wrench")})
	require.Equal(t, 4, rec.ItemNumber)

	s.RealignStandalones(3)

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Pipe Wrench", *snap[4].Name)
}

func TestStore_Replace_RaisesCounterPastRestoredKeys(t *testing.T) {
	s := overlay.NewStore()
	s.Replace(map[int]domain.EditRecord{
		7: {Name: ptr("Restored"), Standalone: true},
	})

	rec := s.AddStandalone(overlay.Patch{Name: ptr("New Row")})
	assert.Equal(t, 8, rec.ItemNumber)

	snap := s.Snapshot()
	assert.Equal(t, 7, snap[7].ItemNumber)
}

func TestStore_Reset(t *testing.T) {
	s := overlay.NewStore()
	s.UpsertEdit(1, overlay.Patch{Quantity: ptr(5.0)})
	s.AddStandalone(overlay.Patch{Name: ptr("Extra")})

	s.Reset()

	assert.Empty(t, s.Snapshot())
	rec := s.AddStandalone(overlay.Patch{Name: ptr("After Reset")})
	assert.Equal(t, 1, rec.ItemNumber)
}

func TestMerge_OverlaysPresentFieldsOnly(t *testing.T) {
	edits := map[int]domain.EditRecord{
		2: {ItemNumber: 2, Quantity: ptr(99.0)},
	}

	merged := overlay.Merge(baseItems(), edits)

	require.Len(t, merged, 3)
	assert.Equal(t, 99.0, merged[1].Quantity)
	assert.Equal(t, "Teflon Tape", merged[1].ItemName)
	assert.Equal(t, 3.0, merged[1].UnitPrice)
	assert.Equal(t, baseItems()[0], merged[0])
}

func TestMerge_AppendsStandaloneRowsInOrder(t *testing.T) {
	edits := map[int]domain.EditRecord{
		5: {ItemNumber: 5, Name: ptr("Hacksaw"), Quantity: ptr(2.0), Standalone: true},
		4: {ItemNumber: 4, Name: ptr("Wrench"), Quantity: ptr(1.0), Standalone: true},
	}

	merged := overlay.Merge(baseItems(), edits)

	require.Len(t, merged, 5)
	assert.Equal(t, 4, merged[3].ItemNumber)
	assert.Equal(t, "Wrench", merged[3].ItemName)
	assert.Equal(t, 5, merged[4].ItemNumber)
	assert.Equal(t, "Hacksaw", merged[4].ItemName)
}

func TestMerge_IgnoresOrphanNonStandaloneEdits(t *testing.T) {
	// An edit for an item number no longer in the base, not marked
	// standalone, must not invent a row.
	edits := map[int]domain.EditRecord{
		42: {ItemNumber: 42, Quantity: ptr(9.0)},
	}

	merged := overlay.Merge(baseItems(), edits)
	assert.Len(t, merged, 3)
}

func TestMerge_Idempotent(t *testing.T) {
	edits := map[int]domain.EditRecord{
		1: {ItemNumber: 1, UnitPrice: ptr(14.0)},
		4: {ItemNumber: 4, Name: ptr("Wrench"), Quantity: ptr(1.0), Standalone: true},
	}

	once := overlay.Merge(baseItems(), edits)
	twice := overlay.Merge(once, edits)

	assert.Equal(t, once, twice)
}

func TestMerge_PureWithRespectToBase(t *testing.T) {
	base := baseItems()
	edits := map[int]domain.EditRecord{
		1: {ItemNumber: 1, Quantity: ptr(77.0)},
	}

	_ = overlay.Merge(base, edits)

	assert.Equal(t, 10.0, base[0].Quantity)
}

func TestRekeyByName_MatchesFirstOccurrence(t *testing.T) {
	base := []domain.LineItem{
		{ItemNumber: 1, ItemName: "Tape"},
		{ItemNumber: 2, ItemName: "Tape"},
		{ItemNumber: 3, ItemName: "Valve"},
	}
	byName := map[string]domain.EditRecord{
		"Tape":  {Quantity: ptr(4.0)},
		"Valve": {UnitPrice: ptr(99.0)},
	}

	out := overlay.RekeyByName(base, byName)

	require.Len(t, out, 2)
	assert.Equal(t, 4.0, *out[1].Quantity)
	assert.Equal(t, 99.0, *out[3].UnitPrice)
	assert.False(t, out[1].Standalone)
}

func TestRekeyByName_UnmatchedBecomeStandalone(t *testing.T) {
	base := []domain.LineItem{
		{ItemNumber: 1, ItemName: "Tape"},
	}
	byName := map[string]domain.EditRecord{
		"Zinc Sheet": {Quantity: ptr(2.0)},
		"Angle Iron": {Quantity: ptr(6.0)},
	}

	out := overlay.RekeyByName(base, byName)

	// Deterministic: names sorted, numbered after the last base item.
	require.Len(t, out, 2)
	require.NotNil(t, out[2].Name)
	assert.Equal(t, "Angle Iron", *out[2].Name)
	assert.True(t, out[2].Standalone)
	require.NotNil(t, out[3].Name)
	assert.Equal(t, "Zinc Sheet", *out[3].Name)
	assert.True(t, out[3].Standalone)
}
