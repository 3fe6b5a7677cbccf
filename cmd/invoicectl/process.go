package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/orbis-trading/invoice-extractor/internal/catalog"
	"github.com/orbis-trading/invoice-extractor/internal/common"
	"github.com/orbis-trading/invoice-extractor/internal/document"
	"github.com/orbis-trading/invoice-extractor/internal/entity"
	"github.com/orbis-trading/invoice-extractor/internal/export"
	"github.com/orbis-trading/invoice-extractor/internal/ingest"
	"github.com/orbis-trading/invoice-extractor/internal/lineitems"
	"github.com/orbis-trading/invoice-extractor/internal/numfmt"
	"github.com/orbis-trading/invoice-extractor/internal/pipeline"
	"github.com/orbis-trading/invoice-extractor/internal/reconcile"
)

var processFlags struct {
	pdfDir  string
	docsDir string
	catalog string
	out     string
	broken  string
	workers int
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract and reconcile invoices into the output table",
	Long: `Process runs the extraction pipeline over every PDF in the invoice
directory: DOCX conversion, field and line-item extraction, catalog
enrichment, and totals reconciliation. Clean invoices are written to
the output table; flagged ones are held out for inspection.`,
	Example: `  invoicectl process --catalog ./catalog.xlsx --out ./invoices.csv

  # keep a list of invoices whose totals did not reconcile
  invoicectl process --catalog ./catalog.xlsx --broken ./broken.csv`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVar(&processFlags.pdfDir, "pdf-dir", "", "invoice directory (defaults to INV_PDF_DIR)")
	processCmd.Flags().StringVar(&processFlags.docsDir, "docs-dir", "", "converted DOCX directory (defaults to INV_DOCX_DIR)")
	processCmd.Flags().StringVar(&processFlags.catalog, "catalog", "", "product catalog .csv or .xlsx (defaults to INV_CATALOG_PATH)")
	processCmd.Flags().StringVar(&processFlags.out, "out", "", "output table .csv or .xlsx (defaults to INV_OUTPUT_PATH)")
	processCmd.Flags().StringVar(&processFlags.broken, "broken", "", "optional CSV listing invoices that failed reconciliation")
	processCmd.Flags().IntVar(&processFlags.workers, "workers", 0, "concurrent document pipelines (defaults to INV_WORKERS)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, _ []string) error {
	log := slog.Default()
	cfg := common.LoadConfig()
	if processFlags.pdfDir != "" {
		cfg.Paths.InvoicesDir = processFlags.pdfDir
	}
	if processFlags.docsDir != "" {
		cfg.Paths.DocsDir = processFlags.docsDir
	}
	if processFlags.catalog != "" {
		cfg.Paths.CatalogPath = processFlags.catalog
	}
	if processFlags.out != "" {
		cfg.Paths.OutputPath = processFlags.out
	}
	if processFlags.workers > 0 {
		cfg.Pipeline.Workers = processFlags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The catalog is batch-fatal: enrichment cannot run without it.
	cat, err := catalog.Load(cfg.Paths.CatalogPath, catalog.Options{
		NameColumn: cfg.Pipeline.CatalogName,
		SizeColumn: cfg.Pipeline.CatalogSize,
	}, log)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var conv *document.Converter
	if cfg.Converter.Command != "" {
		conv = document.NewConverter(cfg.Converter.Command, cfg.Paths.DocsDir, cfg.Converter.Timeout, log)
	}
	model := document.NewModel(conv, log)

	norm := numfmt.NewNormalizer(cfg.Pipeline.Precision)
	proc := pipeline.NewProcessor(
		model,
		lineitems.NewParser(log),
		cat,
		norm,
		reconcile.NewEngine(norm, nil, log),
		cfg.Pipeline.MaxAmounts,
		log,
	)
	pool := pipeline.NewPool(proc, cfg.Pipeline.Workers, cfg.Pipeline.DocTimeout, log)

	paths, err := ingest.ListPDFs(cfg.Paths.InvoicesDir)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDFs found in %s", cfg.Paths.InvoicesDir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	batchID := uuid.NewString()
	log.Info("starting batch",
		"batch_id", batchID,
		"documents", len(paths),
		"catalog_entries", cat.Len(),
		"workers", cfg.Pipeline.Workers)

	results, _ := pool.Run(ctx, paths)
	rows, broken := pipeline.Collect(results)

	if err := export.NewService(log).Write(rows, cfg.Paths.OutputPath); err != nil {
		return fmt.Errorf("write output table: %w", err)
	}
	log.Info("process finished", "batch_id", batchID, "rows", len(rows), "broken", len(broken))

	if processFlags.broken != "" && len(broken) > 0 {
		if err := writeBrokenList(processFlags.broken, broken); err != nil {
			return fmt.Errorf("write broken list: %w", err)
		}
		log.Info("broken invoices written", "path", processFlags.broken, "count", len(broken))
	}
	return nil
}

// writeBrokenList records the invoices held out of the output table so
// they can be fixed by hand and reprocessed.
func writeBrokenList(path string, broken []*entity.Invoice) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Key", "Invoice_number", "Client"}); err != nil {
		return err
	}
	for _, inv := range broken {
		if err := w.Write([]string{inv.Key, inv.InvoiceNumber, inv.ClientName}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
