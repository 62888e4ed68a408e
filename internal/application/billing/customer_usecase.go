package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
	"github.com/Sanket93s/gst-billing-system/pkg/gstin"
)

// CustomerUseCase manages the customers invoices are billed to.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	now  func() time.Time
}

// NewCustomerUseCase builds the use case.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, now: time.Now}
}

// Create stores a new customer. Name and GSTIN must be unique.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	c, err := customerFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	c.ID = uuid.New().String()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Get returns one customer.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List returns customers ordered by name.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCustomerResponse(c))
	}
	return out, nil
}

// Update overwrites every editable field.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	current, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := customerFromRequest(in)
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	resp := ToCustomerResponse(next)
	return &resp, nil
}

// Delete removes a customer no invoice references.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	canonical, ok := canonicalID(id)
	if !ok {
		return domain.ErrCustomerNotFound
	}
	return uc.repo.Delete(ctx, canonical)
}

func (uc *CustomerUseCase) find(ctx context.Context, id string) (*entity.Customer, error) {
	canonical, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	c, err := uc.repo.GetByID(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if c == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return c, nil
}

func customerFromRequest(in dto.CustomerRequest) (*entity.Customer, error) {
	c := &entity.Customer{
		Name:      strings.TrimSpace(in.Name),
		ContactNo: strings.TrimSpace(in.ContactNo),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		GSTIN:     gstin.Normalize(in.GSTIN),
	}
	if c.Name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrInvalidInput)
	}
	if c.GSTIN != "" {
		if err := gstin.Validate(c.GSTIN); err != nil {
			return nil, fmt.Errorf("%w: %w", err, domain.ErrInvalidInput)
		}
	}
	return c, nil
}

// ToCustomerResponse maps a customer to its wire form.
func ToCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		ContactNo: c.ContactNo,
		Email:     c.Email,
		Address:   c.Address,
		GSTIN:     c.GSTIN,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
