package repository

import (
	"context"

	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

// CustomerRepository is the persistence port for Customer.
// GetByID returns (nil, nil) when the customer does not exist.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// Delete returns domain.ErrCustomerNotFound when nothing was deleted and
	// domain.ErrConflict while invoices still reference the customer.
	Delete(ctx context.Context, id string) error
}
