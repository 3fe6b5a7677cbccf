// Package fields locates labeled invoice fields by bilingual keyword
// matching over extracted document text.
package fields

// Strategy selects how a field's value is pulled once a keyword matches.
type Strategy string

const (
	// StrategyLineStart matches a line that starts with the keyword and
	// returns the remainder of that line.
	StrategyLineStart Strategy = "line-start"
	// StrategySubstringAmounts finds the keyword anywhere in the full text
	// and pulls monetary tokens from the remainder.
	StrategySubstringAmounts Strategy = "substring-amounts"
)

// FieldSpec declares one extractable field. Keywords are lowercase and
// ordered; the list carries both English and Spanish labels so adding a
// language or a layout variant is data, not code.
type FieldSpec struct {
	Field    string
	Keywords []string
	Strategy Strategy
}

// HeaderFields are the line-anchored header fields of the two known
// invoice layouts.
var HeaderFields = []FieldSpec{
	{Field: "invoice_number", Keywords: []string{"invoice number", "invoice nr"}, Strategy: StrategyLineStart},
	{Field: "issue_date", Keywords: []string{"issue date", "fecha"}, Strategy: StrategyLineStart},
	{Field: "client_name", Keywords: []string{"bill to", "importador"}, Strategy: StrategyLineStart},
	{Field: "currency", Keywords: []string{"currency", "moneda"}, Strategy: StrategyLineStart},
	{Field: "destination_port", Keywords: []string{"destination port", "puerto de destino"}, Strategy: StrategyLineStart},
}

// AmountKeywords label the totals block; matched as substrings of the full
// document text, not line-anchored.
var AmountKeywords = []string{"sub-total amount", "sub-total", "valor sub-total"}

// Line-item column labels. "prieco un" tolerates a known OCR typo of the
// Spanish unit-price label.
var (
	SqmKeywords        = []string{"sqm", "m2"}
	UnitPriceKeywords  = []string{"unit.price", "precio un", "prieco un"}
	TotalPriceKeywords = []string{"total", "importe"}
)

// Line-item block boundary markers.
var (
	ItemBlockStart = []string{"description of goods", "descripcion de las mercancias"}
	ItemBlockEnd   = []string{"signature", "visto"}
)
