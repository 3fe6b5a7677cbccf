// Package ingest bootstraps the invoice directory: it copies source PDFs
// into the flat processing directory, repairs inconsistent file names, and
// filters out documents that are not commercial invoices.
package ingest

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/orbis-trading/invoice-extractor/constants"
)

// Collector performs the filesystem bootstrap steps.
type Collector struct {
	// TextLines reads a PDF and returns its text lines; injected so tests
	// run without real PDFs.
	TextLines func(path string) ([]string, error)
	Log       *slog.Logger
}

func NewCollector(textLines func(path string) ([]string, error), log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{TextLines: textLines, Log: log}
}

// CopyPDFs copies every PDF under srcDir (subdirectories included) into
// destDir, creating it if needed. Name collisions get an _N suffix instead
// of overwriting.
func (c *Collector) CopyPDFs(srcDir, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf("create dest dir: %w", err)
	}

	copied := 0
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || constants.NormalizeExt(filepath.Ext(d.Name())) != "pdf" {
			return nil
		}

		dest := filepath.Join(destDir, d.Name())
		base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		for counter := 1; ; counter++ {
			if _, err := os.Stat(dest); os.IsNotExist(err) {
				break
			}
			dest = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", base, counter, filepath.Ext(d.Name())))
		}

		if err := copyFile(path, dest); err != nil {
			return err
		}
		c.Log.Info("copied", "source", path, "dest", dest)
		copied++
		return nil
	})
	return copied, err
}

// RenameFiles repairs inconsistent names in dir: whitespace becomes
// dashes, interior periods are dropped, and the "p.df" scanner typo is
// fixed.
func (c *Collector) RenameFiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		fixed := FixFileName(name)
		if fixed == name {
			continue
		}
		oldPath := filepath.Join(dir, name)
		newPath := filepath.Join(dir, fixed)
		if err := os.Rename(oldPath, newPath); err != nil {
			return err
		}
		c.Log.Info("renamed file", "from", oldPath, "to", newPath)
	}
	return nil
}

// FixFileName applies the renaming rules to a single name.
func FixFileName(name string) string {
	s := strings.ReplaceAll(name, " ", "-")
	if strings.Count(s, ".") > 1 {
		withoutPeriods := strings.ReplaceAll(s, ".", "")
		// rejoin at the raw offset of the final period; earlier removals
		// shift the tail left, so clamp to the shortened string
		last := strings.LastIndex(s, ".")
		if last > len(withoutPeriods) {
			last = len(withoutPeriods)
		}
		s = withoutPeriods[:last] + "." + withoutPeriods[last:]
	}
	if strings.HasSuffix(s, "p.df") {
		s = s[:len(s)-4] + ".pdf"
	}
	return s
}

// Classify decides whether a PDF is an English or Spanish commercial
// invoice by marker pairs found in its whitespace-stripped lowercased
// lines.
func (c *Collector) Classify(path string) (constants.InvoiceLanguage, error) {
	lines, err := c.TextLines(path)
	if err != nil {
		return constants.LanguageUnknown, err
	}

	squashed := make([]string, len(lines))
	for i, l := range lines {
		squashed[i] = strings.ToLower(strings.Join(strings.Fields(l), ""))
	}

	contains := func(marker string) bool {
		for _, l := range squashed {
			if strings.Contains(l, marker) {
				return true
			}
		}
		return false
	}

	switch {
	case contains(constants.EnglishMarkers[0]) && contains(constants.EnglishMarkers[1]):
		return constants.LanguageEnglish, nil
	case contains(constants.SpanishMarkers[0]) && contains(constants.SpanishMarkers[1]):
		return constants.LanguageSpanish, nil
	default:
		return constants.LanguageUnknown, nil
	}
}

// FilterStats counts the classification pass.
type FilterStats struct {
	English int
	Spanish int
	Others  int
	Deleted int
}

// FilterInvoices classifies every PDF in dir. When prune is set, files
// that are not invoices are deleted; otherwise they are only counted.
// Unreadable files count as others and are never deleted.
func (c *Collector) FilterInvoices(dir string, prune bool) (FilterStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FilterStats{}, err
	}

	var stats FilterStats
	for _, e := range entries {
		if e.IsDir() || constants.NormalizeExt(filepath.Ext(e.Name())) != "pdf" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		lang, err := c.Classify(path)
		if err != nil {
			c.Log.Error("classification failed", "path", path, "error", err)
			stats.Others++
			continue
		}
		switch lang {
		case constants.LanguageEnglish:
			stats.English++
		case constants.LanguageSpanish:
			stats.Spanish++
		default:
			stats.Others++
			if prune {
				if err := os.Remove(path); err != nil {
					c.Log.Error("delete failed", "path", path, "error", err)
					continue
				}
				c.Log.Info("deleted non-invoice", "path", path)
				stats.Deleted++
			}
		}
	}
	c.Log.Info("filter finished",
		"english", stats.English, "spanish", stats.Spanish,
		"others", stats.Others, "deleted", stats.Deleted)
	return stats, nil
}

// ListPDFs returns the PDF paths in dir in directory-listing order, which
// downstream consumers rely on for stable output.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || constants.NormalizeExt(filepath.Ext(e.Name())) != "pdf" {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
