package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/orbis-trading/invoice-extractor/internal/common"
	"github.com/orbis-trading/invoice-extractor/internal/document"
	"github.com/orbis-trading/invoice-extractor/internal/ingest"
)

var collectFlags struct {
	source string
	dest   string
	prune  bool
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Bootstrap the invoice directory from a raw document drop",
	Long: `Collect copies every PDF found under the source directory into the
flat invoice directory, repairs inconsistent file names, and classifies
each document as an English or Spanish commercial invoice. Documents
that are neither are kept unless --prune is set.`,
	Example: `  # stage and classify, keeping non-invoices
  invoicectl collect --source ./drop --dest ./invoices

  # delete everything that is not a commercial invoice
  invoicectl collect --source ./drop --dest ./invoices --prune`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&collectFlags.source, "source", "", "raw document drop, scanned recursively (defaults to INV_SOURCE_DIR)")
	collectCmd.Flags().StringVar(&collectFlags.dest, "dest", "", "flat invoice directory (defaults to INV_PDF_DIR)")
	collectCmd.Flags().BoolVar(&collectFlags.prune, "prune", false, "delete documents that are not commercial invoices")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	log := slog.Default()
	cfg := common.LoadConfig()
	if collectFlags.source != "" {
		cfg.Paths.SourceDir = collectFlags.source
	}
	if collectFlags.dest != "" {
		cfg.Paths.InvoicesDir = collectFlags.dest
	}
	if cfg.Paths.InvoicesDir == "" {
		return fmt.Errorf("--dest or INV_PDF_DIR is required")
	}

	collector := ingest.NewCollector(func(path string) ([]string, error) {
		_, lines, _, err := document.ExtractPDF(path)
		return lines, err
	}, log)

	if cfg.Paths.SourceDir != "" {
		copied, err := collector.CopyPDFs(cfg.Paths.SourceDir, cfg.Paths.InvoicesDir)
		if err != nil {
			return fmt.Errorf("copy pdfs: %w", err)
		}
		log.Info("copy finished", "copied", copied)
	}

	if err := collector.RenameFiles(cfg.Paths.InvoicesDir); err != nil {
		return fmt.Errorf("rename files: %w", err)
	}

	if _, err := collector.FilterInvoices(cfg.Paths.InvoicesDir, collectFlags.prune); err != nil {
		return fmt.Errorf("filter invoices: %w", err)
	}
	return nil
}
