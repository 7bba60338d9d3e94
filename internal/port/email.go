package port

import (
	"context"

	"snapquote/internal/domain"
)

// QuotationSender defines the contract for sharing a quotation by email.
type QuotationSender interface {
	SendQuotation(ctx context.Context, toEmail, toName string, q *domain.Quotation) error
}
