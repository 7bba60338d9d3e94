package port

import (
	"context"

	"snapquote/internal/domain"
	"snapquote/internal/extraction"
)

// ExtractInput carries an uploaded price-list image to the OCR boundary.
type ExtractInput struct {
	ImageBytes  []byte
	ContentType string
}

// PriceListExtractor abstracts the external OCR/AI extraction service.
// It returns the raw, loosely-typed extraction; normalization into line
// items happens on our side of the boundary.
type PriceListExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*extraction.RawExtraction, error)
}

// CatalogMatcher abstracts the external product-matching service. The
// returned map is keyed by item number; candidates are ranked best first.
// A failed call must be treated by callers as "zero candidates everywhere",
// never as a reason to discard the items themselves.
type CatalogMatcher interface {
	Match(ctx context.Context, items []domain.LineItem) (map[int][]domain.MatchCandidate, error)
}
