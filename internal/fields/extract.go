package fields

import (
	"regexp"
	"strings"
)

// Numeric token patterns for the two separator conventions. The telltale
// pattern decides which one applies to a given document.
var (
	telltaleDotThousands = regexp.MustCompile(`\.\d{1,3},`)
	// "." for thousands, "," for decimals
	amountDotThousands = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*(?:,\d+)?`)
	// "," for thousands, "." for decimals
	amountCommaThousands = regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d+)?`)
)

// AfterKeyword scans lines in order and, for the first line whose
// case-insensitive text starts with any of the keywords, returns the
// remainder of that line with surrounding whitespace stripped. Returns ""
// when no line matches. Keywords must be lowercase.
func AfterKeyword(keywords []string, lines []string) string {
	for _, line := range lines {
		folded := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.HasPrefix(folded, kw) {
				return strings.TrimSpace(line[len(kw):])
			}
		}
	}
	return ""
}

// Header extracts every field in specs from the given lines.
// The result maps field name to raw extracted string ("" if unmatched).
func Header(specs []FieldSpec, lines []string) map[string]string {
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		out[spec.Field] = AfterKeyword(spec.Keywords, lines)
	}
	return out
}

// AmountSet holds the raw monetary tokens located after the sub-total
// label. Fields stay nil when no keyword or token was found.
type AmountSet struct {
	SubTotal   *string
	Fumigation *string
	FOB        *string
}

// Amounts locates the first amount keyword as a substring of the full
// lowercased text and pulls up to max monetary tokens from the remainder.
//
// Token assignment: token[0] is the sub-total. With exactly 2 tokens,
// token[1] is the FOB value and fumigation stays unset. With 3 or more,
// token[1] is fumigation and token[2] is FOB. The asymmetry matches the
// two known layouts: the fumigation charge line is optional.
func Amounts(text string, keywords []string, max int) AmountSet {
	if max <= 0 {
		max = 3
	}
	lowered := strings.ToLower(text)

	idx := -1
	for _, kw := range keywords {
		if i := strings.Index(lowered, kw); i != -1 {
			idx = i + len(kw)
			break
		}
	}
	if idx == -1 {
		return AmountSet{}
	}
	rest := lowered[idx:]

	pattern := amountCommaThousands
	if telltaleDotThousands.MatchString(rest) {
		pattern = amountDotThousands
	}
	tokens := pattern.FindAllString(rest, max)

	var set AmountSet
	if len(tokens) > 0 {
		set.SubTotal = &tokens[0]
	}
	switch {
	case len(tokens) == 2:
		set.FOB = &tokens[1]
	case len(tokens) > 2:
		set.Fumigation = &tokens[1]
		set.FOB = &tokens[2]
	}
	return set
}
