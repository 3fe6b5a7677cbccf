// Package catalog loads the product reference table and enriches parsed
// line items with canonical names and sizes.
package catalog

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

// Entry is one catalog row keyed by the normalized product code.
type Entry struct {
	Code string
	Name string
	Size string
}

// Catalog is the read-only product lookup table, loaded once per run.
type Catalog struct {
	entries map[string]Entry
}

// Options names the source columns. Zero values fall back to the known
// catalog headers.
type Options struct {
	CodeColumn string // default "COD"
	NameColumn string // default "REFERÊNCIA"
	SizeColumn string // default "TAMANHO"
	Sheet      string // XLSX only; default "CONSOLIDADA"
}

func (o *Options) defaults() {
	if o.CodeColumn == "" {
		o.CodeColumn = "COD"
	}
	if o.NameColumn == "" {
		o.NameColumn = "REFERÊNCIA"
	}
	if o.SizeColumn == "" {
		o.SizeColumn = "TAMANHO"
	}
	if o.Sheet == "" {
		o.Sheet = "CONSOLIDADA"
	}
}

// NormalizeCode canonicalizes a raw catalog code: strip every non-digit,
// drop the trailing check digit, left-pad with zeros to 5 characters.
func NormalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 0 {
		digits = digits[:len(digits)-1]
	}
	for len(digits) < 5 {
		digits = "0" + digits
	}
	return digits
}

// Load reads the catalog from a CSV or XLSX file, picking the reader by
// extension. Failure here is batch-fatal: enrichment cannot run without it.
func Load(path string, opts Options, log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}
	opts.defaults()

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path, opts.Sheet)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("load catalog %s: no rows", path)
	}

	header := records[0]
	codeIdx, nameIdx, sizeIdx := -1, -1, -1
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case strings.ToUpper(opts.CodeColumn):
			codeIdx = i
		case strings.ToUpper(opts.NameColumn):
			nameIdx = i
		case strings.ToUpper(opts.SizeColumn):
			sizeIdx = i
		}
	}
	if codeIdx == -1 {
		return nil, fmt.Errorf("load catalog %s: column %q not found", path, opts.CodeColumn)
	}

	c := &Catalog{entries: make(map[string]Entry, len(records)-1)}
	for _, rec := range records[1:] {
		if codeIdx >= len(rec) || strings.TrimSpace(rec[codeIdx]) == "" {
			continue
		}
		e := Entry{Code: NormalizeCode(rec[codeIdx])}
		if nameIdx != -1 && nameIdx < len(rec) {
			e.Name = strings.TrimSpace(rec[nameIdx])
		}
		if sizeIdx != -1 && sizeIdx < len(rec) {
			e.Size = strings.TrimSpace(rec[sizeIdx])
		}
		// first occurrence wins on duplicate codes
		if _, ok := c.entries[e.Code]; !ok {
			c.entries[e.Code] = e
		}
	}

	log.Info("catalog loaded", "path", path, "entries", len(c.entries))
	return c, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return f.GetRows(sheet)
}

// Lookup returns the entry for a normalized code.
func (c *Catalog) Lookup(code string) (Entry, bool) {
	e, ok := c.entries[code]
	return e, ok
}

// Len reports the number of loaded entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all catalog rows, for the relational loader.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	return out
}

// Enrich left-joins the line items' product codes against the catalog,
// attaching name and size. Unmatched codes keep nil name/size; a miss is
// not an error.
func (c *Catalog) Enrich(items []entity.LineItem) {
	for i := range items {
		if e, ok := c.entries[items[i].ProductCode]; ok {
			name, size := e.Name, e.Size
			items[i].ProductName = &name
			items[i].Size = &size
		}
	}
}
