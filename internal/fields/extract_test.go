package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterKeyword(t *testing.T) {
	lines := []string{"Invoice Number: 12345", "Other: x"}
	assert.Equal(t, "12345", AfterKeyword([]string{"invoice number:"}, lines))

	// keyword match is case-insensitive, remainder keeps original case
	assert.Equal(t, "ACME Imports SA", AfterKeyword([]string{"bill to"}, []string{"BILL TO ACME Imports SA"}))

	// first keyword list entry that matches any line wins
	assert.Equal(t, "05/07/2023", AfterKeyword([]string{"issue date", "fecha"}, []string{"Fecha 05/07/2023"}))

	assert.Equal(t, "", AfterKeyword([]string{"currency"}, nil))
	assert.Equal(t, "", AfterKeyword([]string{"currency"}, []string{"no such label"}))
}

func TestHeader(t *testing.T) {
	cells := []string{
		"Invoice Number INV-001",
		"Moneda USD",
		"Puerto de Destino Callao",
	}
	got := Header(HeaderFields, cells)

	assert.Equal(t, "INV-001", got["invoice_number"])
	assert.Equal(t, "USD", got["currency"])
	assert.Equal(t, "Callao", got["destination_port"])
	assert.Equal(t, "", got["client_name"])
}

func TestAmountsThreeTokens(t *testing.T) {
	text := "freight terms\nSUB-TOTAL AMOUNT 12,345.67\nFumigation 150.00\nFOB 12,495.67\n"
	set := Amounts(text, AmountKeywords, 3)

	require.NotNil(t, set.SubTotal)
	require.NotNil(t, set.Fumigation)
	require.NotNil(t, set.FOB)
	assert.Equal(t, "12,345.67", *set.SubTotal)
	assert.Equal(t, "150.00", *set.Fumigation)
	assert.Equal(t, "12,495.67", *set.FOB)
}

func TestAmountsTwoTokens(t *testing.T) {
	text := "Valor Sub-Total 1.234,56\nFOB 1.234,56\n"
	set := Amounts(text, AmountKeywords, 3)

	require.NotNil(t, set.SubTotal)
	assert.Equal(t, "1.234,56", *set.SubTotal)
	assert.Nil(t, set.Fumigation, "fumigation stays unset with exactly two tokens")
	require.NotNil(t, set.FOB)
	assert.Equal(t, "1.234,56", *set.FOB)
}

func TestAmountsNoMatch(t *testing.T) {
	set := Amounts("nothing to see here", AmountKeywords, 3)
	assert.Nil(t, set.SubTotal)
	assert.Nil(t, set.Fumigation)
	assert.Nil(t, set.FOB)
}

func TestAmountsSeparatorConventionSelection(t *testing.T) {
	// dot-thousands comma-decimals document
	set := Amounts("sub-total 9.876,50 fob 9.876,50 extra 1,00", AmountKeywords, 3)
	require.NotNil(t, set.SubTotal)
	assert.Equal(t, "9.876,50", *set.SubTotal)

	// comma-thousands dot-decimals document
	set = Amounts("sub-total 9,876.50", AmountKeywords, 3)
	require.NotNil(t, set.SubTotal)
	assert.Equal(t, "9,876.50", *set.SubTotal)
}
