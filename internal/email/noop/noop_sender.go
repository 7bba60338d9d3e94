package noop

import (
	"context"
	"log"

	"snapquote/internal/domain"
	"snapquote/internal/port"
)

type noopSender struct{}

// NewNoopSender returns a QuotationSender that logs instead of sending.
// Used in local development when SES is not configured.
func NewNoopSender() port.QuotationSender {
	return &noopSender{}
}

func (s *noopSender) SendQuotation(_ context.Context, toEmail, toName string, q *domain.Quotation) error {
	log.Printf("[noop email] would send quotation %s to %s <%s> (%d items, grand total %.2f)",
		q.Meta.QuotationNumber, toName, toEmail, len(q.Items), q.Totals.GrandTotal)
	return nil
}
