// Package export writes the flat clean-output table for downstream loading.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

// Service writes output tables as CSV or XLSX, picked by file extension.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// Write emits one row per clean line item to path. ".xlsx" gets a
// workbook; anything else gets a comma-delimited file.
func (s *Service) Write(rows []entity.OutputRow, path string) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = s.writeXLSX(rows, path)
	} else {
		err = s.writeCSV(rows, path)
	}
	if err != nil {
		return err
	}
	s.logger.Info("output written", "path", path, "rows", len(rows))
	return nil
}

func (s *Service) writeCSV(rows []entity.OutputRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write(entity.OutputColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.Values()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Service) writeXLSX(rows []entity.OutputRow, path string) error {
	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range entity.OutputColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, r := range rows {
		for colIdx, v := range r.Values() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the name and client columns
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "H", "H", 28)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
