package repository

import (
	"context"
	"time"

	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

// InvoiceRepository is the persistence port for Invoice and its line items.
// Lines are reached only through the *Items queries; no entity points back to
// its owner.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error

	// Update overwrites header and aggregates when the stored version equals
	// expectedVersion, and sets invoice.Version to expectedVersion+1.
	// A mismatch returns domain.ErrConflict.
	Update(ctx context.Context, invoice *entity.Invoice, expectedVersion int) error
	// DeleteItems removes every line of the invoice.
	DeleteItems(ctx context.Context, invoiceID string) error
	// Delete removes the invoice and, by cascade, its lines.
	// Returns domain.ErrInvoiceNotFound when nothing was deleted.
	Delete(ctx context.Context, id string) error

	// GetByID returns (nil, nil) when the invoice does not exist.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIDForUpdate is GetByID plus a row lock held until the surrounding
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	// ListByDateRange returns invoices dated within [from, to], bounds inclusive.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error)

	// ItemsByInvoiceID returns the invoice's lines ordered by position.
	ItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	// ItemsByInvoiceIDs groups lines by invoice id, each group ordered by position.
	ItemsByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string][]*entity.InvoiceItem, error)
}
