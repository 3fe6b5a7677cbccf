package lineitems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlignedSequences(t *testing.T) {
	lines := []string{
		"COMMERCIAL INVOICE",
		"Description of Goods",
		"01234 polished tile",
		"56789 rustic tile",
		"990 freight surcharge",
		"Signature",
		"trailing boilerplate 11111", // outside block, ignored
	}
	cells := []string{
		"Sqm 120,50 89,00 1,00",
		"Unit.Price 10,00 12,50 50,00",
		"Total 1.205,00 1.112,50 50,00",
	}

	res := NewParser(nil).Parse(lines, cells)
	require.Len(t, res.Items, 3)
	assert.False(t, res.Truncated)

	assert.Equal(t, RawItem{ProductCode: "01234", Sqm: "120,50", UnitPrice: "10,00", TotalPrice: "1.205,00"}, res.Items[0])
	assert.Equal(t, "56789", res.Items[1].ProductCode)
	assert.Equal(t, "990", res.Items[2].ProductCode)
	assert.Equal(t, "50,00", res.Items[2].TotalPrice)
}

func TestParseTruncatesToShortest(t *testing.T) {
	lines := []string{"11111 a", "22222 b", "33333 c"} // no markers: whole sequence
	cells := []string{
		"Sqm 1 2",          // 2 tokens
		"Unit.Price 5 6 7", // 3 tokens
		"Total 10 20",      // 2 tokens
	}

	res := NewParser(nil).Parse(lines, cells)
	require.Len(t, res.Items, 2)
	assert.True(t, res.Truncated, "length mismatch must be flagged for review")

	assert.Equal(t, "11111", res.Items[0].ProductCode)
	assert.Equal(t, "22222", res.Items[1].ProductCode)
	assert.Equal(t, "20", res.Items[1].TotalPrice)
}

func TestParseMissingMarkerFallsBackToAllLines(t *testing.T) {
	lines := []string{
		"Description of Goods", // start marker present, end marker absent
		"44444 something",
	}
	cells := []string{"Sqm 3", "Unit.Price 4", "Total 12"}

	res := NewParser(nil).Parse(lines, cells)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "44444", res.Items[0].ProductCode)
}

func TestParseNoCodesYieldsEmpty(t *testing.T) {
	res := NewParser(nil).Parse([]string{"no products here"}, []string{"Sqm 1", "Total 2"})
	assert.Empty(t, res.Items)
}

func TestParseSpanishKeywordsAndTypoVariant(t *testing.T) {
	lines := []string{
		"  Descripcion de las Mercancias",
		"  99012 item", // 5-digit match wins over the literal 990 prefix
		"Visto bueno",
	}
	cells := []string{
		"M2 10,00",
		"Prieco Un 2,00", // OCR typo variant of the unit price label
		"Importe 20,00",
	}

	res := NewParser(nil).Parse(lines, cells)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "99012", res.Items[0].ProductCode)
	assert.Equal(t, "2,00", res.Items[0].UnitPrice)
	assert.Equal(t, "20,00", res.Items[0].TotalPrice)
}
