package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/orbis-trading/invoice-extractor/internal/common"
	"github.com/orbis-trading/invoice-extractor/internal/export"
	"github.com/orbis-trading/invoice-extractor/internal/report"
)

var reportFlags struct {
	input          string
	out            string
	start          string
	end            string
	eligibleStart  string
	eligibleEnd    string
	exclusionStart string
	exclusionEnd   string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Derive per-client reorder suggestions from the output table",
	Long: `Report suggests products for clients to reorder. A client is active
when they bought anything inside the report window; a product is
suggested when the client bought it in the eligible window but not
again in the exclusion window. Client names are masked by sequential
ids in the written report.`,
	Example: `  invoicectl report --input ./invoices.csv --out ./reorder.csv \
    --start 2022-07-01 --end 2023-07-31 \
    --eligible-start 2022-07-01 --eligible-end 2023-01-01 \
    --exclusion-start 2023-01-01 --exclusion-end 2023-07-31`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFlags.input, "input", "", "output table CSV to read (defaults to INV_OUTPUT_PATH)")
	reportCmd.Flags().StringVar(&reportFlags.out, "out", "./reorder.csv", "report CSV path")
	reportCmd.Flags().StringVar(&reportFlags.start, "start", "", "report window start, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportFlags.end, "end", "", "report window end, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportFlags.eligibleStart, "eligible-start", "", "eligible purchase window start, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportFlags.eligibleEnd, "eligible-end", "", "eligible purchase window end, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportFlags.exclusionStart, "exclusion-start", "", "recent purchase window start, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportFlags.exclusionEnd, "exclusion-end", "", "recent purchase window end, YYYY-MM-DD")
	for _, name := range []string{"start", "end", "eligible-start", "eligible-end", "exclusion-start", "exclusion-end"} {
		_ = reportCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	log := slog.Default()
	cfg := common.LoadConfig()
	if reportFlags.input != "" {
		cfg.Paths.OutputPath = reportFlags.input
	}

	w, err := parseWindows()
	if err != nil {
		return err
	}

	rows, err := export.ReadCSV(cfg.Paths.OutputPath)
	if err != nil {
		return err
	}

	suggestions := report.Suggest(rows, w, log)
	if err := report.WriteCSV(suggestions, reportFlags.out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	log.Info("report written", "path", reportFlags.out, "clients", len(suggestions))
	return nil
}

func parseWindows() (report.Windows, error) {
	parse := func(flag, value string) (time.Time, error) {
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --%s date, use YYYY-MM-DD: %w", flag, err)
		}
		return d, nil
	}

	var w report.Windows
	var err error
	if w.Start, err = parse("start", reportFlags.start); err != nil {
		return w, err
	}
	if w.End, err = parse("end", reportFlags.end); err != nil {
		return w, err
	}
	if w.EligibleStart, err = parse("eligible-start", reportFlags.eligibleStart); err != nil {
		return w, err
	}
	if w.EligibleEnd, err = parse("eligible-end", reportFlags.eligibleEnd); err != nil {
		return w, err
	}
	if w.ExclusionStart, err = parse("exclusion-start", reportFlags.exclusionStart); err != nil {
		return w, err
	}
	if w.ExclusionEnd, err = parse("exclusion-end", reportFlags.exclusionEnd); err != nil {
		return w, err
	}
	return w, nil
}
