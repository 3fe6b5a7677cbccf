// Package pipeline coordinates the per-document extraction stages:
// document text model, field extraction, line-item parsing, catalog
// enrichment, and reconciliation.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/orbis-trading/invoice-extractor/internal/catalog"
	"github.com/orbis-trading/invoice-extractor/internal/document"
	"github.com/orbis-trading/invoice-extractor/internal/entity"
	"github.com/orbis-trading/invoice-extractor/internal/fields"
	"github.com/orbis-trading/invoice-extractor/internal/lineitems"
	"github.com/orbis-trading/invoice-extractor/internal/numfmt"
	"github.com/orbis-trading/invoice-extractor/internal/reconcile"
)

// DocumentSource abstracts the document text model so the pipeline can be
// exercised without real files.
type DocumentSource interface {
	Load(ctx context.Context, pdfPath string) (*document.Document, error)
}

// Processor runs the extraction stages for a single document.
type Processor struct {
	docs       DocumentSource
	parser     *lineitems.Parser
	catalog    *catalog.Catalog
	norm       *numfmt.Normalizer
	recon      *reconcile.Engine
	maxAmounts int
	log        *slog.Logger
}

func NewProcessor(
	docs DocumentSource,
	parser *lineitems.Parser,
	cat *catalog.Catalog,
	norm *numfmt.Normalizer,
	recon *reconcile.Engine,
	maxAmounts int,
	log *slog.Logger,
) *Processor {
	if log == nil {
		log = slog.Default()
	}
	if maxAmounts <= 0 {
		maxAmounts = 3
	}
	return &Processor{
		docs:       docs,
		parser:     parser,
		catalog:    cat,
		norm:       norm,
		recon:      recon,
		maxAmounts: maxAmounts,
		log:        log,
	}
}

// ProcessDocument builds the Invoice record for one source document.
// Construction is pure with respect to shared state: the catalog is
// read-only, so documents can be processed concurrently.
func (p *Processor) ProcessDocument(ctx context.Context, pdfPath string) (*entity.Invoice, error) {
	doc, err := p.docs.Load(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	header := fields.Header(fields.HeaderFields, doc.Cells)
	inv := &entity.Invoice{
		Key:             doc.Key,
		InvoiceNumber:   header["invoice_number"],
		IssueDate:       header["issue_date"],
		ClientName:      header["client_name"],
		Currency:        header["currency"],
		DestinationPort: header["destination_port"],
	}

	parsed := p.parser.Parse(doc.Lines, doc.Cells)
	inv.Truncated = parsed.Truncated
	inv.LineItems = make([]entity.LineItem, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		inv.LineItems = append(inv.LineItems, entity.LineItem{
			ProductCode: it.ProductCode,
			Sqm:         it.Sqm,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}

	p.catalog.Enrich(inv.LineItems)

	amounts := fields.Amounts(doc.Text, fields.AmountKeywords, p.maxAmounts)
	inv.SubTotalAmount = p.normalizeAmount(doc.Key, "sub_total_amount", amounts.SubTotal)
	inv.Fumigation = p.normalizeAmount(doc.Key, "fumigation", amounts.Fumigation)
	inv.FOB = p.normalizeAmount(doc.Key, "fob", amounts.FOB)

	p.recon.Reconcile(inv)
	return inv, nil
}

// normalizeAmount parses a raw monetary token. A parse failure leaves the
// field nil and never fails the invoice.
func (p *Processor) normalizeAmount(key, field string, raw *string) *decimal.Decimal {
	if raw == nil {
		return nil
	}
	d, err := p.norm.Normalize(*raw)
	if err != nil {
		p.log.Warn("amount field unparseable, leaving unset",
			"key", key, "field", field, "raw", *raw, "error", err)
		return nil
	}
	return &d
}
