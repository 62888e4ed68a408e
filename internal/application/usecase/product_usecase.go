package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/gst"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// ProductUseCase CRUD for the product catalog. Price and rate edits never
// touch lines already billed; those carry their own snapshot.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase builds the use case.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create stores a new product. Names are unique.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	p, err := productFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return toProductResponse(p), nil
}

// GetByID returns one product.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List returns products ordered by name.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update overwrites every editable field.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := productFromRequest(in)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return toProductResponse(next), nil
}

// Delete removes a product no invoice line references.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrProductNotFound
	}
	return uc.repo.Delete(ctx, parsed.String())
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	p, err := uc.repo.GetByID(ctx, parsed.String())
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func productFromRequest(in dto.ProductRequest) (*entity.Product, error) {
	p := &entity.Product{
		Name:        strings.TrimSpace(in.Name),
		HSNSAC:      strings.TrimSpace(in.HSNSAC),
		UnitPrice:   in.UnitPrice,
		GSTRate:     in.GSTRate,
		Description: strings.TrimSpace(in.Description),
	}
	switch {
	case p.Name == "":
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	case p.HSNSAC == "":
		return nil, fmt.Errorf("hsn_sac is required: %w", domain.ErrInvalidInput)
	case p.UnitPrice.IsNegative():
		return nil, fmt.Errorf("unit_price must not be negative: %w", domain.ErrInvalidInput)
	case !gst.ValidRate(p.GSTRate):
		return nil, fmt.Errorf("gst_rate must be within 0 and 100: %w", domain.ErrInvalidInput)
	}
	return p, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		HSNSAC:      p.HSNSAC,
		UnitPrice:   p.UnitPrice,
		GSTRate:     p.GSTRate,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
