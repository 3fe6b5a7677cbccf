package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orbis-trading/invoice-extractor/internal/common"
	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

// Result is the outcome for one source document. Results keep the input
// ordering so downstream output is stable for diffing.
type Result struct {
	Key     string
	Invoice *entity.Invoice
	Err     error
}

// Stats aggregates a batch run.
type Stats struct {
	Processed int
	Skipped   int // unreadable documents
	Flagged   int // reconciliation failures
	Truncated int // item sequences shortened by the alignment policy
}

// Pool fans the per-document pipeline out over a bounded worker group.
type Pool struct {
	proc       *Processor
	workers    int
	docTimeout time.Duration
	log        *slog.Logger
}

func NewPool(proc *Processor, workers int, docTimeout time.Duration, log *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{proc: proc, workers: workers, docTimeout: docTimeout, log: log}
}

// Run processes every path on the worker group, bounding each document with
// the pool's timeout. No document error aborts the batch: failures are
// logged, recorded on the result, and the batch continues.
func (p *Pool) Run(ctx context.Context, paths []string) ([]Result, Stats) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			docCtx := ctx
			if p.docTimeout > 0 {
				var cancel context.CancelFunc
				docCtx, cancel = context.WithTimeout(ctx, p.docTimeout)
				defer cancel()
			}

			p.log.Info("processing file", "path", path)
			inv, err := p.proc.ProcessDocument(docCtx, path)
			results[i] = Result{Key: path, Invoice: inv, Err: err}
			if err != nil {
				p.log.Error("document skipped", "path", path, "error", err,
					"read_error", common.IsDocumentReadError(err))
			} else {
				p.log.Info("done", "path", path, "flag", inv.Flag)
			}
			return nil
		})
	}
	_ = g.Wait()

	var stats Stats
	for _, r := range results {
		switch {
		case r.Err != nil:
			stats.Skipped++
		default:
			stats.Processed++
			if r.Invoice.Flag {
				stats.Flagged++
			}
			if r.Invoice.Truncated {
				stats.Truncated++
			}
		}
	}
	p.log.Info("batch finished",
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"flags", stats.Flagged,
		"truncated", stats.Truncated)
	return results, stats
}

// Collect splits the results into the clean output rows and the broken
// invoices retained for inspection.
func Collect(results []Result) (rows []entity.OutputRow, broken []*entity.Invoice) {
	for _, r := range results {
		if r.Err != nil || r.Invoice == nil {
			continue
		}
		if r.Invoice.Flag {
			broken = append(broken, r.Invoice)
			continue
		}
		rows = append(rows, r.Invoice.Rows()...)
	}
	return rows, broken
}
