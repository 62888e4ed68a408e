package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body for POST and PUT /api/customers.
type CustomerRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	ContactNo string `json:"contact_no" validate:"max=32"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Address   string `json:"address" validate:"max=500"`
	GSTIN     string `json:"gstin,omitempty" validate:"omitempty,len=15,alphanum"`
}

// CustomerResponse customer in responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ContactNo string    `json:"contact_no"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address"`
	GSTIN     string    `json:"gstin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InvoiceRequest body for POST /api/invoices and PUT /api/invoices/:id.
// On PUT the whole line set is replaced by Items.
type InvoiceRequest struct {
	Number        string               `json:"invoice_number" validate:"max=64"`
	Date          string               `json:"invoice_date,omitempty"` // YYYY-MM-DD, today when empty
	CustomerID    string               `json:"customer_id"`
	PaymentStatus string               `json:"payment_status,omitempty" validate:"omitempty,oneof=Pending Paid Cancelled"`
	Notes         string               `json:"notes,omitempty" validate:"max=2000"`
	Version       *int                 `json:"version,omitempty"` // expected version on PUT; If-Match takes precedence
	Items         []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest one draft line: product and quantity. Price and rate are
// always taken from the product.
type InvoiceItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// InvoiceResponse invoice with customer and lines.
type InvoiceResponse struct {
	ID                string                `json:"id"`
	Number            string                `json:"invoice_number"`
	Date              string                `json:"invoice_date"`
	CustomerID        string                `json:"customer_id"`
	Customer          *CustomerResponse     `json:"customer,omitempty"`
	PaymentStatus     string                `json:"payment_status"`
	Notes             string                `json:"notes,omitempty"`
	SubtotalBeforeTax decimal.Decimal       `json:"subtotal_before_tax"`
	TotalTax          decimal.Decimal       `json:"total_tax"`
	GrandTotal        decimal.Decimal       `json:"grand_total"`
	Version           int                   `json:"version"`
	Items             []InvoiceItemResponse `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// InvoiceItemResponse line in responses. UnitPrice and GSTRate are the
// billing-time snapshot; ProductName and HSNSAC are read from the catalog.
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	Position     int             `json:"position"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	HSNSAC       string          `json:"hsn_sac,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// SalesReportResponse body of GET /api/reports/sales.
type SalesReportResponse struct {
	From          string            `json:"from"`
	To            string            `json:"to"`
	Count         int               `json:"count"`
	GrandTotalSum decimal.Decimal   `json:"grand_total_sum"`
	TaxSum        decimal.Decimal   `json:"tax_sum"`
	Invoices      []InvoiceResponse `json:"invoices"`
}
