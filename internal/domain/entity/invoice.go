package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus of an invoice.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPaid      PaymentStatus = "Paid"
	PaymentCancelled PaymentStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCancelled:
		return true
	}
	return false
}

// Invoice is the invoice header. Its line items live in InvoiceItem rows that
// reference it by InvoiceID; the aggregates always equal the sums over those rows.
type Invoice struct {
	ID                string
	Number            string
	Date              time.Time // calendar date, UTC midnight
	CustomerID        string
	PaymentStatus     PaymentStatus
	Notes             string
	SubtotalBeforeTax decimal.Decimal
	TotalTax          decimal.Decimal
	GrandTotal        decimal.Decimal
	Version           int // incremented on every update
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
