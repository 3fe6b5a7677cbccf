package document

import (
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/orbis-trading/invoice-extractor/internal/common"
)

// cellGap is the horizontal distance, in PDF points, above which adjacent
// words on a row belong to different table cells.
const cellGap = 14.0

// ExtractPDF reads a PDF and returns its linear text, the text split into
// lines, and the de-duplicated cell strings recovered from positional
// word grouping on every page.
func ExtractPDF(path string) (text string, lines, cells []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", nil, nil, common.NewDocumentReadError(path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", nil, nil, common.NewDocumentReadError(path, err)
		}
		for _, row := range rows {
			var rowText strings.Builder
			var cell strings.Builder
			prevEnd := -1.0
			for _, word := range row.Content {
				if rowText.Len() > 0 {
					rowText.WriteByte(' ')
				}
				rowText.WriteString(word.S)

				// split the row into cells on large horizontal gaps
				if prevEnd >= 0 && word.X-prevEnd > cellGap {
					cells = append(cells, strings.TrimSpace(cell.String()))
					cell.Reset()
				}
				if cell.Len() > 0 {
					cell.WriteByte(' ')
				}
				cell.WriteString(word.S)
				prevEnd = word.X + word.W
			}
			if cell.Len() > 0 {
				cells = append(cells, strings.TrimSpace(cell.String()))
			}
			sb.WriteString(rowText.String())
			sb.WriteByte('\n')
		}
	}

	text = sb.String()
	lines = strings.Split(text, "\n")
	return text, lines, dedupe(cells), nil
}
