// Package report derives per-client reorder suggestions from the clean
// invoice table.
package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

// MaxSuggestions caps the products suggested per client.
const MaxSuggestions = 5

// unknownProduct stands in when a code never resolved to a catalog name.
const unknownProduct = "Unknown Product"

// dateLayouts are tried in order when parsing the extracted issue date.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// Windows bound the report: clients active inside [Start, End] are
// considered; products bought inside [EligibleStart, EligibleEnd) are
// candidates; products bought inside [ExclusionStart, ExclusionEnd] were
// purchased too recently and are excluded.
type Windows struct {
	Start          time.Time
	End            time.Time
	EligibleStart  time.Time
	EligibleEnd    time.Time
	ExclusionStart time.Time
	ExclusionEnd   time.Time
}

// Suggestion is the reorder list for one client. Clients are masked by a
// sequential id in the written report.
type Suggestion struct {
	ClientID int
	Client   string
	Products []string
}

// Suggest computes reorder suggestions from the output rows. Rows whose
// date does not parse are ignored. Client and product ordering follows
// first appearance in the input, so repeated runs produce identical
// reports.
func Suggest(rows []entity.OutputRow, w Windows, log *slog.Logger) []Suggestion {
	if log == nil {
		log = slog.Default()
	}

	type dated struct {
		entity.OutputRow
		date time.Time
	}
	var parsed []dated
	for _, r := range rows {
		d, err := parseDate(r.Date)
		if err != nil {
			log.Debug("row date unparseable, ignored", "invoice", r.InvoiceNumber, "date", r.Date)
			continue
		}
		parsed = append(parsed, dated{OutputRow: r, date: d})
	}

	// product code -> "name size", first occurrence wins
	nameSize := map[string]string{}
	for _, r := range parsed {
		if _, ok := nameSize[r.ProductCode]; ok {
			continue
		}
		if r.ProductName != "" {
			nameSize[r.ProductCode] = strings.TrimSpace(r.ProductName + " " + r.Size)
		}
	}

	// active clients in first-appearance order
	var clients []string
	seenClient := map[string]struct{}{}
	for _, r := range parsed {
		if r.date.Before(w.Start) || r.date.After(w.End) {
			continue
		}
		if _, ok := seenClient[r.Client]; ok {
			continue
		}
		seenClient[r.Client] = struct{}{}
		clients = append(clients, r.Client)
	}

	var out []Suggestion
	for i, client := range clients {
		eligible := map[string]struct{}{}
		var order []string
		excluded := map[string]struct{}{}

		for _, r := range parsed {
			if r.Client != client {
				continue
			}
			if !r.date.Before(w.EligibleStart) && r.date.Before(w.EligibleEnd) {
				if _, ok := eligible[r.ProductCode]; !ok {
					eligible[r.ProductCode] = struct{}{}
					order = append(order, r.ProductCode)
				}
			}
			if !r.date.Before(w.ExclusionStart) && !r.date.After(w.ExclusionEnd) {
				excluded[r.ProductCode] = struct{}{}
			}
		}

		var products []string
		for _, code := range order {
			if _, ok := excluded[code]; ok {
				continue
			}
			name, ok := nameSize[code]
			if !ok {
				name = unknownProduct
			}
			products = append(products, name)
			if len(products) == MaxSuggestions {
				break
			}
		}

		out = append(out, Suggestion{ClientID: i + 1, Client: client, Products: products})
	}
	return out
}

// WriteCSV writes the masked report: Client ID, Reorder Suggestions.
func WriteCSV(suggestions []Suggestion, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Client ID", "Reorder Suggestions"}); err != nil {
		return err
	}
	for _, s := range suggestions {
		if err := w.Write([]string{strconv.Itoa(s.ClientID), strings.Join(s.Products, "; ")}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", s)
}
