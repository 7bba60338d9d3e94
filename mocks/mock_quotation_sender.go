package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"snapquote/internal/domain"
)

// MockQuotationSender is a mock implementation of port.QuotationSender.
type MockQuotationSender struct {
	mock.Mock
}

func (m *MockQuotationSender) SendQuotation(ctx context.Context, toEmail, toName string, q *domain.Quotation) error {
	args := m.Called(ctx, toEmail, toName, q)
	return args.Error(0)
}
