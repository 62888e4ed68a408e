package billing

import (
	"context"
	"fmt"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// Update replaces an invoice's header and its entire line set. Old lines are
// discarded, never merged. expectedVersion, when not nil, must equal the
// stored version or the update fails with domain.ErrConflict. Without it the
// row lock taken inside the transaction orders concurrent writers.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.InvoiceRequest, expectedVersion *int) (*dto.InvoiceResponse, error) {
	invoiceID, ok := canonicalID(id)
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	now := uc.now().UTC()
	h, err := parseHeader(in, now)
	if err != nil {
		return nil, err
	}
	if _, err := checkDraftLines(in.Items); err != nil {
		return nil, err
	}

	var (
		inv      *entity.Invoice
		customer *entity.Customer
		lines    *lineSet
	)
	err = uc.txRunner.RunBilling(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		current, err := invoiceRepo.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if current == nil {
			return domain.ErrInvoiceNotFound
		}
		expected := current.Version
		if expectedVersion != nil {
			if *expectedVersion != current.Version {
				return fmt.Errorf("invoice %s is at version %d, not %d: %w",
					invoiceID, current.Version, *expectedVersion, domain.ErrConflict)
			}
			expected = *expectedVersion
		}

		customerID := current.CustomerID
		if in.CustomerID != "" {
			c, err := resolveCustomer(ctx, customerRepo, in.CustomerID)
			if err != nil {
				return err
			}
			customer, customerID = c, c.ID
		} else {
			c, err := customerRepo.GetByID(ctx, customerID)
			if err != nil {
				return fmt.Errorf("load customer: %w", err)
			}
			customer = c
		}

		set, err := buildLines(ctx, productRepo, invoiceID, in.Items)
		if err != nil {
			return err
		}

		next := *current
		next.Number = h.number
		next.Date = h.date
		next.PaymentStatus = h.status
		next.Notes = h.notes
		next.CustomerID = customerID
		next.UpdatedAt = now
		if err := set.apply(&next); err != nil {
			return err
		}

		if err := invoiceRepo.DeleteItems(ctx, invoiceID); err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		for _, it := range set.items {
			if err := invoiceRepo.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("create invoice item %d: %w", it.Position, err)
			}
		}
		if err := invoiceRepo.Update(ctx, &next, expected); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		inv, lines = &next, set
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toInvoiceResponse(inv, customer, lines.items, lines.products)
	return &resp, nil
}
