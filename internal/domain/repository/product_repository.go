package repository

import (
	"context"

	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

// ProductRepository is the persistence port for Product.
// GetByID returns (nil, nil) when the product does not exist.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Delete returns domain.ErrProductNotFound when nothing was deleted and
	// domain.ErrConflict while invoice lines still reference the product.
	Delete(ctx context.Context, id string) error
}
