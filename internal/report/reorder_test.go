package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func testWindows() Windows {
	return Windows{
		Start:          day("2022-07-01"),
		End:            day("2023-07-31"),
		EligibleStart:  day("2022-07-01"),
		EligibleEnd:    day("2023-01-01"),
		ExclusionStart: day("2023-01-01"),
		ExclusionEnd:   day("2023-07-31"),
	}
}

func row(client, code, name, date string) entity.OutputRow {
	return entity.OutputRow{Client: client, ProductCode: code, ProductName: name, Size: "60x60", Date: date, InvoiceNumber: "N"}
}

func TestSuggest(t *testing.T) {
	rows := []entity.OutputRow{
		// ACME bought 11111 in the eligible window, not since: suggest it
		row("ACME", "11111", "Polished Ivory", "2022-08-10"),
		// ACME bought 22222 in the eligible window but again recently: excluded
		row("ACME", "22222", "Rustic Slate", "2022-09-01"),
		row("ACME", "22222", "Rustic Slate", "2023-03-01"),
		// Cliente SA only bought recently: active, nothing to suggest
		row("Cliente SA", "33333", "Glazed White", "2023-02-15"),
		// outside the active window entirely
		row("Dormant Co", "11111", "Polished Ivory", "2021-01-01"),
	}

	got := Suggest(rows, testWindows(), nil)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].ClientID)
	assert.Equal(t, "ACME", got[0].Client)
	assert.Equal(t, []string{"Polished Ivory 60x60"}, got[0].Products)

	assert.Equal(t, 2, got[1].ClientID)
	assert.Equal(t, "Cliente SA", got[1].Client)
	assert.Empty(t, got[1].Products)
}

func TestSuggestCapsAtFive(t *testing.T) {
	var rows []entity.OutputRow
	codes := []string{"11111", "22222", "33333", "44444", "55555", "66666", "77777"}
	for _, c := range codes {
		rows = append(rows, row("ACME", c, "Product "+c, "2022-08-01"))
	}

	got := Suggest(rows, testWindows(), nil)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Products, MaxSuggestions)
}

func TestSuggestUnknownProductName(t *testing.T) {
	rows := []entity.OutputRow{row("ACME", "11111", "", "2022-08-01")}

	got := Suggest(rows, testWindows(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Unknown Product"}, got[0].Products)
}

func TestSuggestIgnoresUnparseableDates(t *testing.T) {
	rows := []entity.OutputRow{
		row("ACME", "11111", "Polished Ivory", "sometime"),
		row("ACME", "22222", "Rustic Slate", "2022-08-01"),
	}

	got := Suggest(rows, testWindows(), nil)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Rustic Slate 60x60"}, got[0].Products)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reorder.csv")
	suggestions := []Suggestion{
		{ClientID: 1, Client: "ACME", Products: []string{"A 1", "B 2"}},
		{ClientID: 2, Client: "Cliente SA"},
	}
	require.NoError(t, WriteCSV(suggestions, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Client ID", "Reorder Suggestions"}, records[0])
	assert.Equal(t, []string{"1", "A 1; B 2"}, records[1])
	assert.Equal(t, []string{"2", ""}, records[2])
}
