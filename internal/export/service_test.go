package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

func sampleRows() []entity.OutputRow {
	return []entity.OutputRow{
		{
			ProductCode: "01234", ProductName: "Polished Ivory", Size: "60x60",
			Sqm: "120,50", UnitPrice: "10,00", TotalPrice: "1.205,00",
			InvoiceNumber: "INV-1", Client: "ACME", Date: "2023-05-07",
			Currency: "USD", Destination: "Callao", FOB: "1225.00",
		},
		{
			ProductCode: "56789", InvoiceNumber: "INV-1", Client: "ACME",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.csv")
	require.NoError(t, NewService(nil).Write(sampleRows(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, entity.OutputColumns, records[0])
	assert.Equal(t, "01234", records[1][0])
	assert.Equal(t, "1.205,00", records[1][5])
	assert.Equal(t, "INV-1", records[2][6])
	assert.Equal(t, "", records[2][11], "absent FOB stays empty, not zero")
}

func TestReadCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.csv")
	rows := sampleRows()
	require.NoError(t, NewService(nil).Write(rows, path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.xlsx")
	require.NoError(t, NewService(nil).Write(sampleRows(), path))
	assert.FileExists(t, path)
}
