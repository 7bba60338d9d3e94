package ocrhttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapquote/internal/config"
	"snapquote/internal/extraction/ocrhttp"
	"snapquote/internal/port"
)

func TestClient_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ocr/process-image", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data": map[string]any{
				"rawText": "PVC Elbow 10\nTeflon Tape 20 Roll",
				"parsedData": map[string]any{
					"products": []map[string]any{
						{"itemName": "PVC Elbow", "itemQuantity": 10},
						{"itemName": "Teflon Tape", "itemQuantity": "20 Roll"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	c := ocrhttp.NewClientWithEndpoint(&config.OCRConfig{APIKey: "test-key"}, srv.URL)

	raw, err := c.Extract(context.Background(), port.ExtractInput{
		ImageBytes:  []byte("fake image bytes"),
		ContentType: "image/jpeg",
	})

	require.NoError(t, err)
	require.Len(t, raw.Products, 2)
	assert.Equal(t, "PVC Elbow", raw.Products[0].ItemName)
	assert.Equal(t, 10.0, raw.Products[0].ItemQuantity.Value())
	assert.Equal(t, 20.0, raw.Products[1].ItemQuantity.Value())
}

func TestClient_Extract_ServiceRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "image too blurry",
		})
	}))
	defer srv.Close()

	c := ocrhttp.NewClientWithEndpoint(&config.OCRConfig{}, srv.URL)

	_, err := c.Extract(context.Background(), port.ExtractInput{ImageBytes: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image too blurry")
}

func TestClient_Extract_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	c := ocrhttp.NewClientWithEndpoint(&config.OCRConfig{}, srv.URL)

	_, err := c.Extract(context.Background(), port.ExtractInput{ImageBytes: []byte("x")})
	assert.Error(t, err)
}
