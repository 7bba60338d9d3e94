package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"snapquote/internal/domain"
	"snapquote/internal/extraction"
	"snapquote/internal/port"
)

// MockPriceListExtractor is a mock implementation of port.PriceListExtractor.
type MockPriceListExtractor struct {
	mock.Mock
}

func (m *MockPriceListExtractor) Extract(ctx context.Context, input port.ExtractInput) (*extraction.RawExtraction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.RawExtraction), args.Error(1)
}

// MockCatalogMatcher is a mock implementation of port.CatalogMatcher.
type MockCatalogMatcher struct {
	mock.Mock
}

func (m *MockCatalogMatcher) Match(ctx context.Context, items []domain.LineItem) (map[int][]domain.MatchCandidate, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int][]domain.MatchCandidate), args.Error(1)
}
