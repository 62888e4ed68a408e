package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// InvoiceUseCase creates, replaces, reads and deletes invoices.
// Every write runs inside a single BillingTxRunner transaction and every read
// inside one snapshot.
type InvoiceUseCase struct {
	txRunner BillingTxRunner
	now      func() time.Time
}

// NewInvoiceUseCase builds the use case.
func NewInvoiceUseCase(txRunner BillingTxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, now: time.Now}
}

// WithClock replaces the time source used for default dates and timestamps.
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Create validates a draft, snapshots product prices and rates onto its lines
// and stores header and lines together. On any failure nothing is written.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	now := uc.now().UTC()
	h, err := parseHeader(in, now)
	if err != nil {
		return nil, err
	}
	if _, err := checkDraftLines(in.Items); err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Number:        h.number,
		Date:          h.date,
		PaymentStatus: h.status,
		Notes:         h.notes,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var (
		customer *entity.Customer
		lines    *lineSet
	)
	err = uc.txRunner.RunBilling(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		c, err := resolveCustomer(ctx, customerRepo, in.CustomerID)
		if err != nil {
			return err
		}
		set, err := buildLines(ctx, productRepo, inv.ID, in.Items)
		if err != nil {
			return err
		}
		inv.CustomerID = c.ID
		if err := set.apply(inv); err != nil {
			return err
		}

		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		for _, it := range set.items {
			if err := invoiceRepo.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("create invoice item %d: %w", it.Position, err)
			}
		}
		customer, lines = c, set
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toInvoiceResponse(inv, customer, lines.items, lines.products)
	return &resp, nil
}

// Get returns one invoice with customer and lines.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	canonical, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	var resp *dto.InvoiceResponse
	err := uc.txRunner.ReadSnapshot(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := invoiceRepo.GetByID(ctx, canonical)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		resp, err = NewAssembler(customerRepo, productRepo, invoiceRepo).AssembleOne(ctx, inv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns every invoice, newest date first.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]dto.InvoiceResponse, error) {
	var out []dto.InvoiceResponse
	err := uc.txRunner.ReadSnapshot(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		invoices, err := invoiceRepo.List(ctx)
		if err != nil {
			return fmt.Errorf("list invoices: %w", err)
		}
		out, err = NewAssembler(customerRepo, productRepo, invoiceRepo).Assemble(ctx, invoices)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an invoice and its lines.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	canonical, ok := canonicalID(id)
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	return uc.txRunner.RunBilling(ctx, func(
		_ repository.CustomerRepository,
		_ repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		return invoiceRepo.Delete(ctx, canonical)
	})
}
