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
	"github.com/Sanket93s/gst-billing-system/internal/domain/gst"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

// header is the validated header part of a draft.
type header struct {
	number string
	date   time.Time
	status entity.PaymentStatus
	notes  string
}

// parseHeader applies the draft defaults: today for a missing date and
// Pending for a blank status.
func parseHeader(in dto.InvoiceRequest, now time.Time) (header, error) {
	h := header{
		number: strings.TrimSpace(in.Number),
		notes:  strings.TrimSpace(in.Notes),
		status: entity.PaymentStatus(strings.TrimSpace(in.PaymentStatus)),
	}
	if h.number == "" {
		return header{}, fmt.Errorf("invoice_number is required: %w", domain.ErrBadReference)
	}
	if h.status == "" {
		h.status = entity.PaymentPending
	}
	if !h.status.Valid() {
		return header{}, fmt.Errorf("payment_status %q: %w", in.PaymentStatus, domain.ErrInvalidInput)
	}
	if d := strings.TrimSpace(in.Date); d != "" {
		parsed, err := time.Parse(dto.DateLayout, d)
		if err != nil {
			return header{}, fmt.Errorf("invoice_date %q: %w", in.Date, domain.ErrBadReference)
		}
		h.date = parsed
	} else {
		y, m, day := now.Date()
		h.date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	return h, nil
}

// canonicalID parses a uuid reference and returns its canonical form.
func canonicalID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// resolveCustomer loads the referenced customer. A blank or malformed id is a
// bad reference; a well-formed id with no row is a not-found.
func resolveCustomer(ctx context.Context, repo repository.CustomerRepository, raw string) (*entity.Customer, error) {
	id, ok := canonicalID(raw)
	if !ok {
		return nil, fmt.Errorf("customer_id %q: %w", raw, domain.ErrBadReference)
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("customer %s: %w", id, domain.ErrCustomerNotFound)
	}
	return c, nil
}

// lineSet is a freshly built group of lines and their aggregates.
type lineSet struct {
	items    []*entity.InvoiceItem
	products map[string]*entity.Product
	totals   gst.Totals
}

// checkDraftLines validates the shape of the draft lines without touching storage.
func checkDraftLines(items []dto.InvoiceItemRequest) ([]string, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyInvoice
	}
	ids := make([]string, len(items))
	for i, it := range items {
		id, ok := canonicalID(it.ProductID)
		if !ok {
			return nil, fmt.Errorf("line %d: product_id %q: %w", i+1, it.ProductID, domain.ErrBadReference)
		}
		if it.Quantity <= 0 || it.Quantity > gst.MaxQuantity {
			return nil, fmt.Errorf("line %d: %w", i+1, domain.ErrInvalidQuantity)
		}
		ids[i] = id
	}
	return ids, nil
}

// buildLines resolves every product, copies its current price and rate onto
// the line and computes the line amounts. Positions follow draft order.
func buildLines(ctx context.Context, repo repository.ProductRepository, invoiceID string, items []dto.InvoiceItemRequest) (*lineSet, error) {
	ids, err := checkDraftLines(items)
	if err != nil {
		return nil, err
	}
	found, err := repo.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	products := make(map[string]*entity.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	set := &lineSet{items: make([]*entity.InvoiceItem, 0, len(items)), products: products}
	for i, it := range items {
		p, ok := products[ids[i]]
		if !ok {
			return nil, fmt.Errorf("line %d: product %s: %w", i+1, ids[i], domain.ErrProductNotFound)
		}
		amounts, err := gst.CalculateLine(p.UnitPrice, it.Quantity, p.GSTRate)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		set.totals.Add(amounts)
		set.items = append(set.items, &entity.InvoiceItem{
			ID:           uuid.New().String(),
			InvoiceID:    invoiceID,
			ProductID:    p.ID,
			Position:     i + 1,
			Quantity:     it.Quantity,
			UnitPrice:    p.UnitPrice,
			GSTRate:      p.GSTRate,
			LineSubtotal: amounts.Subtotal,
			LineTax:      amounts.Tax,
			LineTotal:    amounts.Total,
		})
	}
	return set, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// apply copies the aggregates onto inv and re-checks header against lines.
func (s *lineSet) apply(inv *entity.Invoice) error {
	inv.SubtotalBeforeTax = s.totals.Subtotal
	inv.TotalTax = s.totals.Tax
	inv.GrandTotal = s.totals.Grand
	return gst.CheckInvoice(inv, s.items)
}
