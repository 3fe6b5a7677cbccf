// Package loader inserts the clean output table into the relational store
// consumed by reporting.
package loader

import (
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orbis-trading/invoice-extractor/internal/catalog"
	"github.com/orbis-trading/invoice-extractor/internal/entity"
)

// Open connects to the configured store and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch driver {
	case "postgres":
		dial = postgres.Open(dsn)
	case "sqlite", "":
		dial = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Product{}, &Customer{}, &Invoice{}, &InvoiceItem{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// Stats counts what a load pass inserted.
type Stats struct {
	Products     int
	Customers    int
	Invoices     int
	InvoiceItems int
}

// Loader writes output rows and catalog entries into the store.
type Loader struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewLoader(db *gorm.DB, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{db: db, log: log}
}

// Load inserts, in dependency order: catalog products not yet present,
// distinct customers, invoices de-duplicated by number and joined to their
// customer, and invoice items restricted to known product codes and
// de-duplicated on (invoice_number, product_code). Re-running a load is
// idempotent.
func (l *Loader) Load(rows []entity.OutputRow, cat *catalog.Catalog) (Stats, error) {
	var stats Stats

	err := l.db.Transaction(func(tx *gorm.DB) error {
		n, err := l.loadProducts(tx, cat)
		if err != nil {
			return err
		}
		stats.Products = n

		if stats.Customers, err = l.loadCustomers(tx, rows); err != nil {
			return err
		}
		if stats.Invoices, err = l.loadInvoices(tx, rows); err != nil {
			return err
		}
		if stats.InvoiceItems, err = l.loadItems(tx, rows); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	l.log.Info("load finished",
		"products", stats.Products,
		"customers", stats.Customers,
		"invoices", stats.Invoices,
		"invoice_items", stats.InvoiceItems)
	return stats, nil
}

func (l *Loader) loadProducts(tx *gorm.DB, cat *catalog.Catalog) (int, error) {
	var existing []string
	if err := tx.Model(&Product{}).Pluck("product_code", &existing).Error; err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, code := range existing {
		known[code] = struct{}{}
	}

	inserted := 0
	for _, e := range cat.Entries() {
		if _, ok := known[e.Code]; ok {
			continue
		}
		if err := tx.Create(&Product{ProductCode: e.Code, Name: e.Name, Size: e.Size}).Error; err != nil {
			return inserted, err
		}
		known[e.Code] = struct{}{}
		inserted++
	}
	return inserted, nil
}

func (l *Loader) loadCustomers(tx *gorm.DB, rows []entity.OutputRow) (int, error) {
	inserted := 0
	seen := map[string]struct{}{}
	for _, r := range rows {
		if r.Client == "" {
			continue
		}
		if _, ok := seen[r.Client]; ok {
			continue
		}
		seen[r.Client] = struct{}{}

		var c Customer
		res := tx.Where(Customer{Name: r.Client}).FirstOrCreate(&c)
		if res.Error != nil {
			return inserted, res.Error
		}
		if res.RowsAffected > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (l *Loader) loadInvoices(tx *gorm.DB, rows []entity.OutputRow) (int, error) {
	inserted := 0
	seen := map[string]struct{}{}
	for _, r := range rows {
		if r.InvoiceNumber == "" {
			continue
		}
		if _, ok := seen[r.InvoiceNumber]; ok {
			continue
		}
		seen[r.InvoiceNumber] = struct{}{}

		var customer Customer
		if err := tx.Where("name = ?", r.Client).First(&customer).Error; err != nil {
			l.log.Warn("invoice without known customer, skipping",
				"invoice", r.InvoiceNumber, "client", r.Client)
			continue
		}

		var inv Invoice
		res := tx.Where(Invoice{InvoiceNumber: r.InvoiceNumber}).
			Attrs(Invoice{
				IssueDate:       r.Date,
				FOB:             r.FOB,
				DestinationPort: r.Destination,
				CustomerID:      customer.CustomerID,
			}).
			FirstOrCreate(&inv)
		if res.Error != nil {
			return inserted, res.Error
		}
		if res.RowsAffected > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (l *Loader) loadItems(tx *gorm.DB, rows []entity.OutputRow) (int, error) {
	var codes []string
	if err := tx.Model(&Product{}).Pluck("product_code", &codes).Error; err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		known[c] = struct{}{}
	}

	inserted := 0
	seen := map[string]struct{}{}
	for _, r := range rows {
		// only items whose product exists in the catalog table
		if _, ok := known[r.ProductCode]; !ok {
			continue
		}
		key := r.InvoiceNumber + "\x00" + r.ProductCode
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		var it InvoiceItem
		res := tx.Where(InvoiceItem{InvoiceNumber: r.InvoiceNumber, ProductCode: r.ProductCode}).
			Attrs(InvoiceItem{
				Sqm:        r.Sqm,
				UnitPrice:  r.UnitPrice,
				TotalPrice: r.TotalPrice,
				Currency:   r.Currency,
			}).
			FirstOrCreate(&it)
		if res.Error != nil {
			return inserted, res.Error
		}
		if res.RowsAffected > 0 {
			inserted++
		}
	}
	return inserted, nil
}
