package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Commercial invoice extraction and reconciliation",
	Long: `invoicectl turns a directory of bilingual commercial invoice PDFs
into a clean line-item table.

The batch lifecycle is split over subcommands: collect bootstraps the
invoice directory from a raw document drop, process extracts and
reconciles the invoices into the output table, load pushes the table
into a relational database, and report derives per-client reorder
suggestions from it.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
