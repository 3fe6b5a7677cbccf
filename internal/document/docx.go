package document

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/orbis-trading/invoice-extractor/internal/common"
)

// extractDocx reads a DOCX archive and returns the document's non-empty
// paragraph lines (tables included, in document order) and the
// de-duplicated text of every table cell.
//
// DOCX is a zip holding word/document.xml; paragraphs are w:p elements,
// runs carry text in w:t, tables nest w:tbl > w:tr > w:tc. Parsing the XML
// token stream directly keeps this pure Go.
func extractDocx(path string) (lines, cells []string, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, common.NewDocumentReadError(path, err)
	}
	defer func() {
		_ = zr.Close()
	}()

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return nil, nil, common.NewDocumentReadError(path, err)
			}
			break
		}
	}
	if docXML == nil {
		return nil, nil, common.NewDocumentReadError(path, fmt.Errorf("word/document.xml not found"))
	}
	defer func() {
		_ = docXML.Close()
	}()

	lines, cells, err = parseDocumentXML(docXML)
	if err != nil {
		return nil, nil, common.NewDocumentReadError(path, err)
	}
	return lines, dedupe(cells), nil
}

func parseDocumentXML(r io.Reader) (lines, cells []string, err error) {
	dec := xml.NewDecoder(r)

	var (
		para      strings.Builder
		cell      strings.Builder
		inPara    bool
		inText    bool
		cellDepth int // nested w:tc elements
	)

	flushPara := func() {
		text := strings.TrimRight(para.String(), " \t")
		para.Reset()
		if strings.TrimSpace(text) == "" {
			return
		}
		lines = append(lines, text)
		if cellDepth > 0 {
			if cell.Len() > 0 {
				cell.WriteByte('\n')
			}
			cell.WriteString(text)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
			case "t":
				inText = true
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					flushPara()
				}
			case "tc":
				cellDepth++
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				flushPara()
				inPara = false
			case "t":
				inText = false
			case "tc":
				cells = append(cells, cell.String())
				cell.Reset()
				cellDepth--
			}
		case xml.CharData:
			if inPara && inText {
				para.Write(t)
			}
		}
	}
	return lines, cells, nil
}
