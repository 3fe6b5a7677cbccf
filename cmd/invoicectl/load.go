package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/orbis-trading/invoice-extractor/internal/catalog"
	"github.com/orbis-trading/invoice-extractor/internal/common"
	"github.com/orbis-trading/invoice-extractor/internal/export"
	"github.com/orbis-trading/invoice-extractor/internal/loader"
)

var loadFlags struct {
	input   string
	catalog string
	driver  string
	dsn     string
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the output table into a relational database",
	Long: `Load reads the table written by process and upserts it into the
product, customer, invoice and invoiceitem tables. Rows already present
are left untouched, so reruns after a partial failure are safe.`,
	Example: `  invoicectl load --input ./invoices.csv --catalog ./catalog.xlsx

  # against postgres instead of the default sqlite file
  invoicectl load --driver postgres --dsn "host=db user=inv dbname=inv"`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadFlags.input, "input", "", "output table CSV to load (defaults to INV_OUTPUT_PATH)")
	loadCmd.Flags().StringVar(&loadFlags.catalog, "catalog", "", "product catalog .csv or .xlsx (defaults to INV_CATALOG_PATH)")
	loadCmd.Flags().StringVar(&loadFlags.driver, "driver", "", "database driver, sqlite or postgres (defaults to INV_DB_DRIVER)")
	loadCmd.Flags().StringVar(&loadFlags.dsn, "dsn", "", "database DSN (defaults to INV_DB_DSN)")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(_ *cobra.Command, _ []string) error {
	log := slog.Default()
	cfg := common.LoadConfig()
	if loadFlags.input != "" {
		cfg.Paths.OutputPath = loadFlags.input
	}
	if loadFlags.catalog != "" {
		cfg.Paths.CatalogPath = loadFlags.catalog
	}
	if loadFlags.driver != "" {
		cfg.Database.Driver = loadFlags.driver
	}
	if loadFlags.dsn != "" {
		cfg.Database.DSN = loadFlags.dsn
	}
	if cfg.Paths.CatalogPath == "" {
		return fmt.Errorf("--catalog or INV_CATALOG_PATH is required")
	}

	rows, err := export.ReadCSV(cfg.Paths.OutputPath)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.Paths.CatalogPath, catalog.Options{
		NameColumn: cfg.Pipeline.CatalogName,
		SizeColumn: cfg.Pipeline.CatalogSize,
	}, log)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	db, err := loader.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	stats, err := loader.NewLoader(db, log).Load(rows, cat)
	if err != nil {
		return fmt.Errorf("load rows: %w", err)
	}
	log.Info("load finished",
		"products", stats.Products,
		"customers", stats.Customers,
		"invoices", stats.Invoices,
		"invoice_items", stats.InvoiceItems)
	return nil
}
