package billing

import (
	"context"

	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/gst"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// BillingTxRunner runs fn inside one transaction with repositories bound to it.
// A nil return commits; any error rolls everything back.
type BillingTxRunner interface {
	SnapshotReader
	RunBilling(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// SnapshotReader runs fn against one consistent, read-only view of committed
// state. Writes through the repositories fail.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator renders a fully resolved invoice into a printable PDF.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// Seller is the issuing business shown on documents. All fields are optional.
type Seller struct {
	Name    string
	GSTIN   string
	Address string
	Phone   string
}

// InvoiceDocument is the read-only snapshot handed to a generator.
type InvoiceDocument struct {
	Title    string
	Currency string
	Seller   Seller
	Invoice  entity.Invoice
	Customer *entity.Customer
	Lines    []DocumentLine
	ByRate   []gst.RateSummary
}

// DocumentLine is a stored line plus its product's display fields.
type DocumentLine struct {
	entity.InvoiceItem
	ProductName string
	HSNSAC      string
}
