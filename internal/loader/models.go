package loader

// Relational schema for downstream reporting: product, customer, invoice,
// invoiceitem. Monetary columns keep the raw extracted strings; consumers
// normalize on read.

type Product struct {
	ProductCode string `gorm:"column:product_code;primaryKey"`
	Name        string `gorm:"column:name"`
	Size        string `gorm:"column:size"`
}

func (Product) TableName() string { return "product" }

type Customer struct {
	CustomerID uint   `gorm:"column:customer_id;primaryKey;autoIncrement"`
	Name       string `gorm:"column:name;uniqueIndex"`
}

func (Customer) TableName() string { return "customer" }

type Invoice struct {
	InvoiceID       uint   `gorm:"column:invoice_id;primaryKey;autoIncrement"`
	InvoiceNumber   string `gorm:"column:invoice_number;uniqueIndex"`
	IssueDate       string `gorm:"column:issue_date"`
	FOB             string `gorm:"column:fob"`
	DestinationPort string `gorm:"column:destination_port"`
	CustomerID      uint   `gorm:"column:customer_id;index"`
}

func (Invoice) TableName() string { return "invoice" }

type InvoiceItem struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceNumber string `gorm:"column:invoice_number;uniqueIndex:idx_invoice_product"`
	ProductCode   string `gorm:"column:product_code;uniqueIndex:idx_invoice_product"`
	Sqm           string `gorm:"column:sqm"`
	UnitPrice     string `gorm:"column:unit_price"`
	TotalPrice    string `gorm:"column:total_price"`
	Currency      string `gorm:"column:currency"`
}

func (InvoiceItem) TableName() string { return "invoiceitem" }
