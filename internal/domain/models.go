package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated app user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	CompanyName  string    `db:"company_name" json:"company_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// LineItem is one row of a quotation. Items produced by extraction and
// matching are treated as immutable base facts for a given run; user intent
// lives in the edit overlay and is merged on read.
type LineItem struct {
	// ItemNumber is the stable 1-based identity assigned at normalization
	// time. It is never reused or reordered within a session and is the
	// join key for the edit overlay.
	ItemNumber      int     `json:"item_number"`
	ItemID          *string `json:"item_id"`
	ItemName        string  `json:"item_name"`
	ItemDescription *string `json:"item_description"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxRatePercent  float64 `json:"tax_rate_percent"`
	Brand           *string `json:"brand"`
	// Candidates holds all ranked catalog matches for the line, best first.
	// Candidates[0] is folded into the base fields at match time; the rest
	// stay retrievable for manual override.
	Candidates []MatchCandidate `json:"candidates,omitempty"`
}

// MatchCandidate is one ranked catalog product proposed for a line item.
type MatchCandidate struct {
	ItemID          *string `json:"item_id"`
	ItemName        string  `json:"item_name"`
	ItemDescription *string `json:"item_description"`
	Brand           *string `json:"brand"`
	Price           float64 `json:"price"`
	DefaultDiscount float64 `json:"default_discount"`
}

// EditRecord is a user override for a single line, keyed by item number.
// Nil fields mean "inherit from the base item". A record is replaced as a
// whole on upsert, with omitted fields falling back to the previously
// stored record, never to the base item.
type EditRecord struct {
	ItemNumber      int      `json:"item_number"`
	Name            *string  `json:"name,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"`
	UnitPrice       *float64 `json:"unit_price,omitempty"`
	DiscountPercent *float64 `json:"discount_percent,omitempty"`
	// Standalone marks rows the user added by hand, with no base item
	// behind them. They surface after all extracted rows on merge.
	Standalone bool `json:"standalone,omitempty"`
}

// QuotationTotals holds the derived monetary aggregates. They are never
// stored independently of their inputs; recompute on every change.
type QuotationTotals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

// QuotationMeta holds document-level metadata.
type QuotationMeta struct {
	Date            time.Time `json:"date"`
	QuotationNumber string    `json:"quotation_number,omitempty"`
	CustomerName    string    `json:"customer_name,omitempty"`
	CompanyName     string    `json:"company_name,omitempty"`
}

// Quotation is the assembled, presentation-ready document handed to the
// rendering collaborators (export, email, the mobile client's PDF view).
type Quotation struct {
	Items                 []LineItem      `json:"items"`
	Totals                QuotationTotals `json:"totals"`
	GlobalDiscountPercent float64         `json:"global_discount_percent"`
	TaxRatePercent        float64         `json:"tax_rate_percent"`
	Meta                  QuotationMeta   `json:"meta"`
}

// SessionRecord is the minimal recoverable state of a quote session, as
// persisted: base items, the edit overlay, and the document-level rates.
type SessionRecord struct {
	ID                    uuid.UUID          `json:"id"`
	UserID                uuid.UUID          `json:"user_id"`
	Status                SessionStatus      `json:"status"`
	Items                 []LineItem         `json:"items"`
	Edits                 map[int]EditRecord `json:"edits"`
	GlobalDiscountPercent float64            `json:"global_discount_percent"`
	TaxRatePercent        float64            `json:"tax_rate_percent"`
	Meta                  QuotationMeta      `json:"meta"`
	ImageKey              string             `json:"image_key,omitempty"`
	MatchNotice           string             `json:"match_notice,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}
