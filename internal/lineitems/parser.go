// Package lineitems recovers the product rows of an invoice from the
// document's line sequence and table-cell text.
package lineitems

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/orbis-trading/invoice-extractor/internal/fields"
)

// codePattern matches a product code at the start of a line: a 5-digit
// number or the literal 990 used for service charges.
var codePattern = regexp.MustCompile(`^(\d{5}|990)`)

// splitPattern separates numeric tokens on any run of characters that is
// not a digit, comma, or period.
var splitPattern = regexp.MustCompile(`[^0-9.,]+`)

// RawItem is one positional row before catalog enrichment. All values are
// the raw extracted strings.
type RawItem struct {
	ProductCode string
	Sqm         string
	UnitPrice   string
	TotalPrice  string
}

// Result is the parsed line-item table plus extraction-quality markers.
type Result struct {
	Items []RawItem
	// Truncated is set when the four parallel sequences had unequal lengths
	// and trailing entries were dropped by the alignment policy.
	Truncated bool
}

// Parser isolates the line-item block and assembles rows by positional
// alignment of the code, area, unit-price and total-price sequences.
type Parser struct {
	log *slog.Logger
}

func NewParser(log *slog.Logger) *Parser {
	if log == nil {
		log = slog.Default()
	}
	return &Parser{log: log}
}

// Parse extracts line items from the document's flat lines and its
// table-cell text set. A document with no recognizable product codes
// yields an empty item list, not an error.
func (p *Parser) Parse(lines []string, cells []string) Result {
	block := itemBlock(lines)

	var codes []string
	for _, line := range block {
		if m := codePattern.FindStringSubmatch(line); m != nil {
			codes = append(codes, m[1])
		}
	}

	// The source layout stores each numeric column as a single run-on table
	// cell, so the three sequences are split per document, not per row.
	sqms := splitNumeric(fields.AfterKeyword(fields.SqmKeywords, cells))
	unitPrices := splitNumeric(fields.AfterKeyword(fields.UnitPriceKeywords, cells))
	totalPrices := splitNumeric(fields.AfterKeyword(fields.TotalPriceKeywords, cells))

	codes, sqms, unitPrices, totalPrices, truncated := alignTruncate(codes, sqms, unitPrices, totalPrices)
	if truncated {
		p.log.Warn("item sequences had unequal lengths, truncated to shortest",
			"codes", len(codes))
	}

	items := make([]RawItem, 0, len(codes))
	for i := range codes {
		items = append(items, RawItem{
			ProductCode: codes[i],
			Sqm:         sqms[i],
			UnitPrice:   unitPrices[i],
			TotalPrice:  totalPrices[i],
		})
	}
	return Result{Items: items, Truncated: truncated}
}

// itemBlock returns the inclusive slice of lines between the bilingual
// "description of goods" and "signature" markers. If either marker is
// missing the whole sequence is used.
func itemBlock(lines []string) []string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimLeft(line, " \t")
	}

	start, end := -1, -1
	for i, line := range trimmed {
		folded := strings.ToLower(line)
		if start == -1 && hasAnyPrefix(folded, fields.ItemBlockStart) {
			start = i
		}
		if end == -1 && hasAnyPrefix(folded, fields.ItemBlockEnd) {
			end = i
		}
	}
	if start != -1 && end != -1 && start <= end {
		return trimmed[start : end+1]
	}
	return trimmed
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// splitNumeric splits a run-on numeric string into tokens, discarding
// empty parts.
func splitNumeric(s string) []string {
	parts := splitPattern.Split(s, -1)
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// alignTruncate is the documented alignment policy: when the four parallel
// sequences disagree in length, all are cut to the shortest before zipping.
// Excess trailing entries are dropped, and the caller is told so the
// invoice can be surfaced for manual review.
func alignTruncate(codes, sqms, units, totals []string) (c, s, u, t []string, truncated bool) {
	min := len(codes)
	for _, l := range []int{len(sqms), len(units), len(totals)} {
		if l < min {
			min = l
		}
	}
	truncated = len(codes) != min || len(sqms) != min || len(units) != min || len(totals) != min
	return codes[:min], sqms[:min], units[:min], totals[:min], truncated
}
