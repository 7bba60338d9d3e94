package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"snapquote/internal/domain"
	"snapquote/internal/port"
	"snapquote/internal/pricing"
	"snapquote/internal/quotation"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed QuotationSender.
func NewSESSender(region, fromAddress, fromName string) (port.QuotationSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendQuotation(ctx context.Context, toEmail, toName string, q *domain.Quotation) error {
	subject := fmt.Sprintf("Quotation %s", q.Meta.QuotationNumber)
	if q.Meta.QuotationNumber == "" {
		subject = "Your quotation"
	}
	htmlBody := buildQuotationHTML(toName, q)
	textBody := buildQuotationText(toName, q)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

// amount formats a monetary value for display. Rounding to two decimals
// happens here, at the rendering boundary, never inside the calculator.
func amount(v float64) string {
	return fmt.Sprintf("₹%.2f", pricing.Round2(v))
}

func buildQuotationHTML(toName string, q *domain.Quotation) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family:Arial,sans-serif;color:#222">`)
	if toName != "" {
		fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(toName))
	}
	b.WriteString("<p>Please find your quotation below.</p>")
	if q.Meta.QuotationNumber != "" {
		fmt.Fprintf(&b, "<p><strong>%s</strong> &middot; %s</p>",
			html.EscapeString(q.Meta.QuotationNumber), q.Meta.Date.Format("02 Jan 2006"))
	}

	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse">`)
	b.WriteString("<tr><th>No</th><th>Item</th><th>Qty</th><th>Price</th><th>Discount</th><th>Total</th></tr>")
	for i := range q.Items {
		item := &q.Items[i]
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%g</td><td>%s</td><td>%g%%</td><td>%s</td></tr>",
			item.ItemNumber,
			html.EscapeString(quotation.DisplayName(item)),
			item.Quantity,
			amount(item.UnitPrice),
			item.DiscountPercent,
			amount(pricing.LineNet(item)),
		)
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Subtotal: %s<br>", amount(q.Totals.Subtotal))
	fmt.Fprintf(&b, "Discount (%g%%): %s<br>", q.GlobalDiscountPercent, amount(q.Totals.DiscountAmount))
	fmt.Fprintf(&b, "GST (%g%%): %s<br>", q.TaxRatePercent, amount(q.Totals.TaxAmount))
	fmt.Fprintf(&b, "<strong>Grand Total: %s</strong></p>", amount(q.Totals.GrandTotal))

	if q.Meta.CompanyName != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(q.Meta.CompanyName))
	}
	b.WriteString("</body></html>")
	return b.String()
}

func buildQuotationText(toName string, q *domain.Quotation) string {
	var b strings.Builder
	if toName != "" {
		fmt.Fprintf(&b, "Hi %s,\n\n", toName)
	}
	b.WriteString("Your quotation:\n\n")
	for i := range q.Items {
		item := &q.Items[i]
		fmt.Fprintf(&b, "%d. %s\n   Qty: %g | Price: %s | Total: %s\n",
			item.ItemNumber, quotation.DisplayName(item),
			item.Quantity, amount(item.UnitPrice), amount(pricing.LineNet(item)))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\n", amount(q.Totals.Subtotal))
	fmt.Fprintf(&b, "Discount (%g%%): %s\n", q.GlobalDiscountPercent, amount(q.Totals.DiscountAmount))
	fmt.Fprintf(&b, "GST (%g%%): %s\n", q.TaxRatePercent, amount(q.Totals.TaxAmount))
	fmt.Fprintf(&b, "TOTAL: %s\n", amount(q.Totals.GrandTotal))
	return b.String()
}
