package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

type (
	invoiceRow = entity.Invoice
	itemRow    = entity.InvoiceItem
)

// InvoiceRepository implements repository.InvoiceRepository.
type InvoiceRepository struct {
	view
}

func (r *InvoiceRepository) Create(_ context.Context, inv *entity.Invoice) error {
	return r.write(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := checkNumber(st, inv); err != nil {
			return err
		}
		if _, ok := st.customers[inv.CustomerID]; !ok {
			return domain.ErrConflict
		}
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *InvoiceRepository) CreateItem(_ context.Context, it *entity.InvoiceItem) error {
	return r.write(func(st *state) error {
		if _, ok := st.items[it.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.invoices[it.InvoiceID]; !ok {
			return domain.ErrConflict
		}
		if _, ok := st.products[it.ProductID]; !ok {
			return domain.ErrConflict
		}
		st.items[it.ID] = *it
		return nil
	})
}

func (r *InvoiceRepository) Update(_ context.Context, inv *entity.Invoice, expectedVersion int) error {
	return r.write(func(st *state) error {
		stored, ok := st.invoices[inv.ID]
		if !ok {
			return domain.ErrInvoiceNotFound
		}
		if stored.Version != expectedVersion {
			return domain.ErrConflict
		}
		if err := checkNumber(st, inv); err != nil {
			return err
		}
		if _, ok := st.customers[inv.CustomerID]; !ok {
			return domain.ErrConflict
		}
		inv.Version = expectedVersion + 1
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *InvoiceRepository) DeleteItems(_ context.Context, invoiceID string) error {
	return r.write(func(st *state) error {
		deleteItems(st, invoiceID)
		return nil
	})
}

func (r *InvoiceRepository) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		if _, ok := st.invoices[id]; !ok {
			return domain.ErrInvoiceNotFound
		}
		deleteItems(st, id)
		delete(st.invoices, id)
		return nil
	})
}

func (r *InvoiceRepository) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.read(func(st *state) {
		if inv, ok := st.invoices[id]; ok {
			out = &inv
		}
	})
	return out, nil
}

// GetByIDForUpdate needs no extra lock: transactions are already serialized.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepository) List(_ context.Context) ([]*entity.Invoice, error) {
	all := r.collect(func(*entity.Invoice) bool { return true })
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return all, nil
}

func (r *InvoiceRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]*entity.Invoice, error) {
	all := r.collect(func(inv *entity.Invoice) bool {
		return !inv.Date.Before(from) && !inv.Date.After(to)
	})
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Number < b.Number
	})
	return all, nil
}

func (r *InvoiceRepository) ItemsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	out := make([]*entity.InvoiceItem, 0)
	r.read(func(st *state) {
		for _, it := range st.items {
			if it.InvoiceID == invoiceID {
				out = append(out, &it)
			}
		}
	})
	sortByPosition(out)
	return out, nil
}

func (r *InvoiceRepository) ItemsByInvoiceIDs(_ context.Context, invoiceIDs []string) (map[string][]*entity.InvoiceItem, error) {
	want := make(map[string]struct{}, len(invoiceIDs))
	for _, id := range invoiceIDs {
		want[id] = struct{}{}
	}
	out := make(map[string][]*entity.InvoiceItem, len(invoiceIDs))
	r.read(func(st *state) {
		for _, it := range st.items {
			if _, ok := want[it.InvoiceID]; ok {
				out[it.InvoiceID] = append(out[it.InvoiceID], &it)
			}
		}
	})
	for _, lines := range out {
		sortByPosition(lines)
	}
	return out, nil
}

func (r *InvoiceRepository) collect(keep func(*entity.Invoice) bool) []*entity.Invoice {
	var out []*entity.Invoice
	r.read(func(st *state) {
		out = make([]*entity.Invoice, 0, len(st.invoices))
		for _, inv := range st.invoices {
			if keep(&inv) {
				out = append(out, &inv)
			}
		}
	})
	return out
}

func checkNumber(st *state, inv *entity.Invoice) error {
	for id, other := range st.invoices {
		if id != inv.ID && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func deleteItems(st *state, invoiceID string) {
	for id, it := range st.items {
		if it.InvoiceID == invoiceID {
			delete(st.items, id)
		}
	}
}

func sortByPosition(items []*entity.InvoiceItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })
}
