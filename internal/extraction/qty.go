package extraction

import (
	"regexp"
	"strconv"
)

var leadingDigits = regexp.MustCompile(`\d+`)

// ParseQuantity extracts the leading integer from a free-text quantity
// such as "20 Roll" or "approx 12 pcs". Text without digits parses to 0.
func ParseQuantity(text string) float64 {
	token := leadingDigits.FindString(text)
	if token == "" {
		return 0
	}
	n, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return n
}
