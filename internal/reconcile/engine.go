// Package reconcile validates an invoice's extracted subtotal against the
// sum of its line-item totals.
package reconcile

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/orbis-trading/invoice-extractor/internal/entity"
	"github.com/orbis-trading/invoice-extractor/internal/numfmt"
)

// RepairStrategy attempts to fix a known extraction artifact. It returns
// the repaired item slice; returning the input unchanged means the strategy
// does not apply.
type RepairStrategy struct {
	Name  string
	Apply func(items []entity.LineItem) []entity.LineItem
}

// DedupeByProductCode drops repeated product codes, keeping the first
// occurrence. Recovers invoices where the extraction duplicated a line.
func DedupeByProductCode() RepairStrategy {
	return RepairStrategy{
		Name: "dedupe-by-product-code",
		Apply: func(items []entity.LineItem) []entity.LineItem {
			seen := make(map[string]struct{}, len(items))
			out := make([]entity.LineItem, 0, len(items))
			for _, it := range items {
				if _, ok := seen[it.ProductCode]; ok {
					continue
				}
				seen[it.ProductCode] = struct{}{}
				out = append(out, it)
			}
			return out
		},
	}
}

// Engine checks subtotal equality and applies repair strategies in order
// until the sum matches or the list is exhausted.
type Engine struct {
	norm       *numfmt.Normalizer
	strategies []RepairStrategy
	log        *slog.Logger
}

// NewEngine builds an Engine. A nil strategy list installs the default
// single dedupe strategy.
func NewEngine(norm *numfmt.Normalizer, strategies []RepairStrategy, log *slog.Logger) *Engine {
	if strategies == nil {
		strategies = []RepairStrategy{DedupeByProductCode()}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{norm: norm, strategies: strategies, log: log}
}

// Reconcile compares the invoice's normalized subtotal with the exact sum
// of its normalized line-item totals. On mismatch each strategy is applied
// in order, re-checking after each; the first strategy that makes the sum
// match has its repaired items installed on the invoice. If every strategy
// fails — or the subtotal is absent — the invoice is flagged and belongs in
// the broken set, not the clean output.
func (e *Engine) Reconcile(inv *entity.Invoice) bool {
	if inv.SubTotalAmount == nil {
		e.log.Warn("no subtotal extracted, flagging invoice", "invoice", inv.InvoiceNumber)
		inv.Flag = true
		return false
	}
	want := *inv.SubTotalAmount

	if sum, ok := e.sum(inv.LineItems); ok && sum.Equal(want) {
		return true
	}

	for _, strat := range e.strategies {
		repaired := strat.Apply(inv.LineItems)
		sum, ok := e.sum(repaired)
		if ok && sum.Equal(want) {
			e.log.Info("reconciled after repair",
				"invoice", inv.InvoiceNumber, "strategy", strat.Name)
			inv.LineItems = repaired
			return true
		}
	}

	sum, _ := e.sum(inv.LineItems)
	e.log.Warn("sub-total amount differs from sum of products",
		"invoice", inv.InvoiceNumber,
		"sub_total", want.String(),
		"price_sum", sum.String())
	inv.Flag = true
	return false
}

// sum normalizes every total price and adds them exactly. ok is false when
// any total fails to parse.
func (e *Engine) sum(items []entity.LineItem) (decimal.Decimal, bool) {
	total := decimal.Zero
	ok := true
	for _, it := range items {
		d, err := e.norm.Normalize(it.TotalPrice)
		if err != nil {
			ok = false
			continue
		}
		total = total.Add(d)
	}
	return total, ok
}
