package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

// ReadCSV reads a previously written output table back into rows. The
// header must match OutputColumns; column order is fixed by the writer.
func ReadCSV(path string) ([]entity.OutputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open output table: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read output table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("output table %s is empty", path)
	}
	if len(records[0]) != len(entity.OutputColumns) {
		return nil, fmt.Errorf("output table %s has %d columns, want %d",
			path, len(records[0]), len(entity.OutputColumns))
	}

	rows := make([]entity.OutputRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, entity.OutputRow{
			ProductCode:   rec[0],
			ProductName:   rec[1],
			Size:          rec[2],
			Sqm:           rec[3],
			UnitPrice:     rec[4],
			TotalPrice:    rec[5],
			InvoiceNumber: rec[6],
			Client:        rec[7],
			Date:          rec[8],
			Currency:      rec[9],
			Destination:   rec[10],
			FOB:           rec[11],
		})
	}
	return rows, nil
}
