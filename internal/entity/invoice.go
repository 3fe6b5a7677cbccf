package entity

import "github.com/shopspring/decimal"

// LineItem is one product row within an invoice. ProductName and Size are
// nil when the catalog join missed the product code.
type LineItem struct {
	ProductCode string
	ProductName *string
	Size        *string
	Sqm         string
	UnitPrice   string
	TotalPrice  string
}

// Invoice is the structured record extracted from one source document pair.
// Header fields keep the raw extracted strings; amounts stay nil when no
// keyword matched or the token could not be parsed.
type Invoice struct {
	Key             string // file name without extension
	InvoiceNumber   string
	IssueDate       string
	ClientName      string
	Currency        string
	DestinationPort string

	SubTotalAmount *decimal.Decimal
	Fumigation     *decimal.Decimal
	FOB            *decimal.Decimal

	LineItems []LineItem

	// Flag is set once by reconciliation when the extracted subtotal cannot
	// be matched to the sum of line-item totals.
	Flag bool

	// Truncated records that the four parallel item sequences had unequal
	// lengths and trailing entries were dropped; such invoices deserve a
	// manual look even when they reconcile.
	Truncated bool
}

// OutputRow is one line of the flat export table, one per clean line item.
type OutputRow struct {
	ProductCode   string
	ProductName   string
	Size          string
	Sqm           string
	UnitPrice     string
	TotalPrice    string
	InvoiceNumber string
	Client        string
	Date          string
	Currency      string
	Destination   string
	FOB           string
}

// OutputColumns is the header of the flat export table, in order.
var OutputColumns = []string{
	"Product_code",
	"Product_name",
	"Size",
	"Sqm",
	"Unit_price",
	"Total_price",
	"Invoice_number",
	"Client",
	"Date",
	"Currency",
	"Destination",
	"FOB",
}

// Rows flattens the invoice into output rows, one per line item.
func (inv *Invoice) Rows() []OutputRow {
	fob := ""
	if inv.FOB != nil {
		fob = inv.FOB.String()
	}
	rows := make([]OutputRow, 0, len(inv.LineItems))
	for _, it := range inv.LineItems {
		rows = append(rows, OutputRow{
			ProductCode:   it.ProductCode,
			ProductName:   strOrEmpty(it.ProductName),
			Size:          strOrEmpty(it.Size),
			Sqm:           it.Sqm,
			UnitPrice:     it.UnitPrice,
			TotalPrice:    it.TotalPrice,
			InvoiceNumber: inv.InvoiceNumber,
			Client:        inv.ClientName,
			Date:          inv.IssueDate,
			Currency:      inv.Currency,
			Destination:   inv.DestinationPort,
			FOB:           fob,
		})
	}
	return rows
}

// Values returns the row as a string slice aligned with OutputColumns.
func (r OutputRow) Values() []string {
	return []string{
		r.ProductCode,
		r.ProductName,
		r.Size,
		r.Sqm,
		r.UnitPrice,
		r.TotalPrice,
		r.InvoiceNumber,
		r.Client,
		r.Date,
		r.Currency,
		r.Destination,
		r.FOB,
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
