package extraction

import (
	"encoding/json"
	"strconv"
)

// RawExtraction is the loosely-typed output of the external OCR/AI service.
// Every field is optional and quantity may arrive as free text; the
// normalizer turns this into precise line items so the rest of the core
// never sees duck-typed shapes.
type RawExtraction struct {
	Products []RawProduct `json:"products"`
}

// RawProduct is one candidate row as extracted from the image.
type RawProduct struct {
	ItemNumber      *int        `json:"itemNumber,omitempty"`
	ItemID          *string     `json:"itemId,omitempty"`
	ItemName        string      `json:"itemName"`
	ItemDescription *string     `json:"itemDescription,omitempty"`
	ItemQuantity    RawQuantity `json:"itemQuantity"`
}

// RawQuantity tolerates both numeric and free-text JSON quantities
// ("20 Roll", "20", 20, null).
type RawQuantity struct {
	Text   string
	Number float64
	IsNum  bool
}

// UnmarshalJSON accepts a JSON number, string, or null.
func (q *RawQuantity) UnmarshalJSON(data []byte) error {
	*q = RawQuantity{}
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		q.Number = n
		q.IsNum = true
		q.Text = strconv.FormatFloat(n, 'f', -1, 64)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		q.Text = s
		return nil
	}
	// Unrecognized shape degrades to zero quantity, never an error.
	return nil
}

// MarshalJSON writes the numeric form when known, the raw text otherwise.
func (q RawQuantity) MarshalJSON() ([]byte, error) {
	if q.IsNum {
		return json.Marshal(q.Number)
	}
	return json.Marshal(q.Text)
}

// Value resolves the quantity to a non-negative number. Free text yields
// its leading integer; text with no digits yields 0.
func (q RawQuantity) Value() float64 {
	if q.IsNum {
		if q.Number < 0 {
			return 0
		}
		return q.Number
	}
	return ParseQuantity(q.Text)
}
