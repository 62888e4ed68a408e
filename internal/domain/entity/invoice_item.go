package entity

import "github.com/shopspring/decimal"

// InvoiceItem is one line of an invoice. UnitPrice and GSTRate are snapshots of
// the product at billing time.
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	ProductID    string
	Position     int // 1-based order within the submitted draft
	Quantity     int
	UnitPrice    decimal.Decimal
	GSTRate      decimal.Decimal
	LineSubtotal decimal.Decimal
	LineTax      decimal.Decimal
	LineTotal    decimal.Decimal
}
