// Package document extracts raw text and table-cell text from PDF and DOCX
// invoice documents behind one model, with cached PDF-to-DOCX conversion.
package document

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// Document is the text view of one source document pair. Lines and Cells
// come from the converted DOCX when one is available, falling back to the
// PDF extraction; Text is always the linear PDF pass, which is where the
// amount labels live in both known layouts.
type Document struct {
	Key      string // file name without extension
	PDFPath  string
	DocxPath string // "" when conversion failed or was disabled

	Text  string
	Lines []string
	Cells []string
}

// Model produces Documents from source files.
type Model struct {
	converter *Converter // nil disables DOCX conversion
	log       *slog.Logger
}

func NewModel(conv *Converter, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}
	return &Model{converter: conv, log: log}
}

// Load extracts the document pair for one PDF. Conversion failure degrades
// to PDF-only extraction; an unreadable PDF returns a DocumentReadError.
func (m *Model) Load(ctx context.Context, pdfPath string) (*Document, error) {
	key := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))

	text, lines, cells, err := ExtractPDF(pdfPath)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Key:     key,
		PDFPath: pdfPath,
		Text:    text,
		Lines:   lines,
		Cells:   cells,
	}

	if m.converter == nil {
		return doc, nil
	}

	docxPath, err := m.converter.Convert(ctx, pdfPath)
	if err != nil {
		m.log.Warn("docx conversion failed, proceeding with pdf extraction only",
			"key", key, "error", err)
		return doc, nil
	}
	doc.DocxPath = docxPath

	docxLines, docxCells, err := extractDocx(docxPath)
	if err != nil {
		m.log.Warn("docx extraction failed, proceeding with pdf extraction only",
			"key", key, "error", err)
		doc.DocxPath = ""
		return doc, nil
	}
	doc.Lines = docxLines
	doc.Cells = docxCells
	return doc, nil
}

// dedupe keeps the first occurrence of each string, preserving order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
