// Package numfmt parses monetary strings whose thousands and decimal
// separators follow either the 1,234.56 or the 1.234,56 convention.
package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/orbis-trading/invoice-extractor/internal/common"
)

// DefaultPrecision is the number of fractional digits kept after parsing.
const DefaultPrecision int32 = 2

// Normalizer converts ambiguous numeric strings into exact decimal values.
type Normalizer struct {
	precision int32
}

// NewNormalizer returns a Normalizer rounding to the given number of
// fractional digits. Negative precision falls back to the default.
func NewNormalizer(precision int32) *Normalizer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Normalizer{precision: precision}
}

// Normalize parses a numeric string into an exact decimal value.
//
// When both '.' and ',' occur, the separator appearing later in the string
// is the decimal point and the other is stripped as a thousands separator.
// With a single separator type, it is stripped as a thousands separator when
// it occurs more than once, or when its only occurrence is followed by more
// than 2 digits; otherwise it is the decimal point.
func (n *Normalizer) Normalize(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, &common.ParseError{Input: value}
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		if dot > comma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	default:
		if strings.Count(s, ".") > 1 || (strings.Count(s, ".") == 1 && dot < len(s)-3) {
			s = strings.ReplaceAll(s, ".", "")
		} else if strings.Count(s, ",") > 1 || (strings.Count(s, ",") == 1 && comma < len(s)-3) {
			s = strings.ReplaceAll(s, ",", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &common.ParseError{Input: value, Cause: err}
	}
	return d.Round(n.precision), nil
}

// Format renders a normalized value back to its canonical dot-decimal form.
// Re-normalizing the result yields the same value.
func (n *Normalizer) Format(d decimal.Decimal) string {
	return d.StringFixed(n.precision)
}
