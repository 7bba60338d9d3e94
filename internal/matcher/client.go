// Package matcher adapts the external product-matching service. The
// service is a black box returning ranked candidates per item; selection
// policy and folding live in apply.go.
package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"snapquote/internal/config"
	"snapquote/internal/domain"
)

const matchPath = "/api/ocr/process-data"

// Client implements port.CatalogMatcher over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a matcher client from config. The matching endpoint
// lives on the same service as OCR extraction.
func NewClient(cfg *config.OCRConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint creates a client pointing at a custom base URL
// (for testing).
func NewClientWithEndpoint(cfg *config.OCRConfig, baseURL string) *Client {
	c := NewClient(cfg)
	c.baseURL = baseURL
	return c
}

type matchRequestItem struct {
	ItemNumber      int     `json:"itemNumber"`
	ItemID          *string `json:"itemId"`
	ItemName        string  `json:"itemName"`
	ItemDescription *string `json:"itemDescription"`
	ItemQuantity    float64 `json:"itemQuantity"`
}

type matchRequest struct {
	Data []matchRequestItem `json:"data"`
}

type matchedProduct struct {
	ItemID          *string  `json:"itemId"`
	ItemName        string   `json:"itemName"`
	ItemDescription *string  `json:"itemDescription"`
	Brand           *string  `json:"brand"`
	Price           *float64 `json:"price"`
	DefaultDiscount *float64 `json:"defaultDiscount"`
}

type matchResponseItem struct {
	ItemNumber      int              `json:"itemNumber"`
	ItemName        *string          `json:"itemName"`
	ItemQuantity    float64          `json:"itemQuantity"`
	MatchedProducts []matchedProduct `json:"matchedProducts"`
}

type matchResponse struct {
	Success bool                `json:"success"`
	Data    []matchResponseItem `json:"data"`
}

// Match submits the items and returns ranked candidates keyed by item
// number. The call is stateless; a transport or service failure returns an
// error and callers degrade to zero candidates for every item.
func (c *Client) Match(ctx context.Context, items []domain.LineItem) (map[int][]domain.MatchCandidate, error) {
	req := matchRequest{Data: make([]matchRequestItem, 0, len(items))}
	for i := range items {
		it := &items[i]
		req.Data = append(req.Data, matchRequestItem{
			ItemNumber:      it.ItemNumber,
			ItemID:          it.ItemID,
			ItemName:        it.ItemName,
			ItemDescription: it.ItemDescription,
			ItemQuantity:    it.Quantity,
		})
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling match request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+matchPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling match service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading match response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("match service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var decoded matchResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decoding match response: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("match service reported failure")
	}

	out := make(map[int][]domain.MatchCandidate, len(decoded.Data))
	for _, mi := range decoded.Data {
		candidates := make([]domain.MatchCandidate, 0, len(mi.MatchedProducts))
		for _, mp := range mi.MatchedProducts {
			candidates = append(candidates, domain.MatchCandidate{
				ItemID:          mp.ItemID,
				ItemName:        mp.ItemName,
				ItemDescription: mp.ItemDescription,
				Brand:           mp.Brand,
				Price:           deref(mp.Price),
				DefaultDiscount: deref(mp.DefaultDiscount),
			})
		}
		out[mi.ItemNumber] = candidates
	}
	return out, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
