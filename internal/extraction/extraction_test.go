package extraction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapquote/internal/extraction"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"20 Roll", 20},
		{"20", 20},
		{"approx 12 pcs", 12},
		{"Roll", 0},
		{"", 0},
		{"3 boxes of 12", 3},
		{"x5", 5},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extraction.ParseQuantity(tt.text))
		})
	}
}

func TestRawQuantity_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{"number", `20`, 20},
		{"numeric string", `"20"`, 20},
		{"free text", `"20 Roll"`, 20},
		{"text without digits", `"Roll"`, 0},
		{"null", `null`, 0},
		{"negative number", `-3`, 0},
		{"object shape degrades to zero", `{"value":20}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q extraction.RawQuantity
			require.NoError(t, json.Unmarshal([]byte(tt.json), &q))
			assert.Equal(t, tt.want, q.Value())
		})
	}
}

func TestRawQuantity_MarshalRoundTrip(t *testing.T) {
	var q extraction.RawQuantity
	require.NoError(t, json.Unmarshal([]byte(`"20 Roll"`), &q))

	out, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, `"20 Roll"`, string(out))
}

func TestNormalize_AssignsSequentialItemNumbers(t *testing.T) {
	desc := "for 2-inch pipes"
	raw := &extraction.RawExtraction{
		Products: []extraction.RawProduct{
			{ItemName: "  PVC Elbow  ", ItemQuantity: numQty(10)},
			{ItemName: "Teflon Tape", ItemDescription: &desc, ItemQuantity: textQty("20 Roll")},
			{ItemName: "Ball Valve", ItemQuantity: textQty("Roll")},
		},
	}

	items := extraction.Normalize(raw, 18)

	require.Len(t, items, 3)
	assert.Equal(t, 1, items[0].ItemNumber)
	assert.Equal(t, 2, items[1].ItemNumber)
	assert.Equal(t, 3, items[2].ItemNumber)

	assert.Equal(t, "PVC Elbow", items[0].ItemName)
	assert.Equal(t, 10.0, items[0].Quantity)
	assert.Equal(t, 20.0, items[1].Quantity)
	require.NotNil(t, items[1].ItemDescription)
	assert.Equal(t, "for 2-inch pipes", *items[1].ItemDescription)
	assert.Zero(t, items[2].Quantity)

	for _, it := range items {
		assert.Equal(t, 18.0, it.TaxRatePercent)
		assert.Zero(t, it.UnitPrice)
	}
}

func TestNormalize_IgnoresServiceItemNumbers(t *testing.T) {
	seven := 7
	raw := &extraction.RawExtraction{
		Products: []extraction.RawProduct{
			{ItemNumber: &seven, ItemName: "Widget", ItemQuantity: numQty(1)},
		},
	}

	items := extraction.Normalize(raw, 18)

	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ItemNumber)
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := &extraction.RawExtraction{
		Products: []extraction.RawProduct{
			{ItemName: "A", ItemQuantity: numQty(1)},
			{ItemName: "B", ItemQuantity: numQty(2)},
		},
	}

	first := extraction.Normalize(raw, 18)
	second := extraction.Normalize(raw, 18)

	assert.Equal(t, first, second)
}

func TestNormalize_NilInput(t *testing.T) {
	items := extraction.Normalize(nil, 18)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func numQty(n float64) extraction.RawQuantity {
	return extraction.RawQuantity{Number: n, IsNum: true}
}

func textQty(s string) extraction.RawQuantity {
	return extraction.RawQuantity{Text: s}
}
