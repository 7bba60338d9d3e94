package matcher_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapquote/internal/config"
	"snapquote/internal/domain"
	"snapquote/internal/matcher"
)

func ptr[T any](v T) *T { return &v }

func TestApply_FoldsTopCandidate(t *testing.T) {
	items := []domain.LineItem{
		{ItemNumber: 1, ItemName: "teflon tape", Quantity: 20},
	}
	candidates := map[int][]domain.MatchCandidate{
		1: {
			{ItemID: ptr("SKU-100"), ItemName: "Teflon Tape 12mm", Brand: ptr("Supreme"), Price: 35, DefaultDiscount: 5},
			{ItemID: ptr("SKU-101"), ItemName: "Teflon Tape 19mm", Price: 55},
		},
	}

	out := matcher.Apply(items, candidates)

	require.Len(t, out, 1)
	require.NotNil(t, out[0].ItemID)
	assert.Equal(t, "SKU-100", *out[0].ItemID)
	assert.Equal(t, "Teflon Tape 12mm", out[0].ItemName)
	assert.Equal(t, 35.0, out[0].UnitPrice)
	assert.Equal(t, 5.0, out[0].DiscountPercent)
	require.NotNil(t, out[0].Brand)
	assert.Equal(t, "Supreme", *out[0].Brand)
	assert.Len(t, out[0].Candidates, 2)
	assert.Equal(t, 20.0, out[0].Quantity)
}

func TestApply_UnmatchedItemRemainsQuotable(t *testing.T) {
	items := []domain.LineItem{
		{ItemNumber: 1, ItemName: "mystery part", Quantity: 3},
	}

	out := matcher.Apply(items, map[int][]domain.MatchCandidate{})

	require.Len(t, out, 1)
	assert.Nil(t, out[0].ItemID)
	assert.Equal(t, "mystery part", out[0].ItemName)
	assert.Zero(t, out[0].UnitPrice)
	assert.Nil(t, out[0].Candidates)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := []domain.LineItem{
		{ItemNumber: 1, ItemName: "valve", Quantity: 1},
	}
	candidates := map[int][]domain.MatchCandidate{
		1: {{ItemName: "Ball Valve", Price: 150}},
	}

	_ = matcher.Apply(items, candidates)

	assert.Equal(t, "valve", items[0].ItemName)
	assert.Zero(t, items[0].UnitPrice)
}

func TestClient_Match(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ocr/process-data", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Data []struct {
				ItemNumber   int     `json:"itemNumber"`
				ItemName     string  `json:"itemName"`
				ItemQuantity float64 `json:"itemQuantity"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Data, 2)
		assert.Equal(t, 1, req.Data[0].ItemNumber)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"itemNumber": 1,
					"itemName":   "teflon tape",
					"matchedProducts": []map[string]any{
						{"itemId": "SKU-100", "itemName": "Teflon Tape 12mm", "price": 35, "defaultDiscount": 5},
					},
				},
				{
					"itemNumber":      2,
					"itemName":        "mystery part",
					"matchedProducts": []map[string]any{},
				},
			},
		})
	}))
	defer srv.Close()

	c := matcher.NewClientWithEndpoint(&config.OCRConfig{APIKey: "test-key"}, srv.URL)
	items := []domain.LineItem{
		{ItemNumber: 1, ItemName: "teflon tape", Quantity: 20},
		{ItemNumber: 2, ItemName: "mystery part", Quantity: 3},
	}

	out, err := c.Match(context.Background(), items)

	require.NoError(t, err)
	require.Len(t, out[1], 1)
	assert.Equal(t, "Teflon Tape 12mm", out[1][0].ItemName)
	assert.Equal(t, 35.0, out[1][0].Price)
	assert.Equal(t, 5.0, out[1][0].DefaultDiscount)
	assert.Empty(t, out[2])
}

func TestClient_Match_ServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := matcher.NewClientWithEndpoint(&config.OCRConfig{}, srv.URL)

	_, err := c.Match(context.Background(), []domain.LineItem{{ItemNumber: 1}})
	assert.Error(t, err)
}

func TestClient_Match_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := matcher.NewClientWithEndpoint(&config.OCRConfig{}, srv.URL)

	_, err := c.Match(context.Background(), []domain.LineItem{{ItemNumber: 1}})
	assert.Error(t, err)
}
