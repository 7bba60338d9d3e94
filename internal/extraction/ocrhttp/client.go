// Package ocrhttp is the HTTP adapter for the external OCR/AI extraction
// service. An image goes in, a raw extraction comes out; everything the
// service gets wrong is absorbed here or by the normalizer, never deeper
// in the core.
package ocrhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"snapquote/internal/config"
	"snapquote/internal/extraction"
	"snapquote/internal/port"
)

const extractPath = "/api/ocr/process-image"

// Client implements port.PriceListExtractor over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates an OCR client from config.
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

// extractResponse mirrors the service's response envelope. Fields beyond
// the parsed products are ignored.
type extractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		RawText    string                   `json:"rawText"`
		ParsedData extraction.RawExtraction `json:"parsedData"`
	} `json:"data"`
}

// Extract uploads the image and returns the raw extraction.
func (c *Client) Extract(ctx context.Context, input port.ExtractInput) (*extraction.RawExtraction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "pricelist.jpg")
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := part.Write(input.ImageBytes); err != nil {
		return nil, fmt.Errorf("writing image to form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+extractPath, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OCR service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading OCR response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var decoded extractResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("decoding OCR response: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("OCR service rejected image: %s", decoded.Message)
	}
	return &decoded.Data.ParsedData, nil
}
