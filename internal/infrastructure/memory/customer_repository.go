package memory

import (
	"context"
	"sort"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

type customerRow = entity.Customer

// CustomerRepository implements repository.CustomerRepository.
type CustomerRepository struct {
	view
}

func (r *CustomerRepository) Create(_ context.Context, c *entity.Customer) error {
	return r.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := checkCustomerUnique(st, c); err != nil {
			return err
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepository) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.read(func(st *state) {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CustomerRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(ids))
	r.read(func(st *state) {
		for _, id := range ids {
			if c, ok := st.customers[id]; ok {
				out = append(out, &c)
			}
		}
	})
	return out, nil
}

func (r *CustomerRepository) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	var all []*entity.Customer
	r.read(func(st *state) {
		all = make([]*entity.Customer, 0, len(st.customers))
		for _, c := range st.customers {
			all = append(all, &c)
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

func (r *CustomerRepository) Update(_ context.Context, c *entity.Customer) error {
	return r.write(func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrCustomerNotFound
		}
		if err := checkCustomerUnique(st, c); err != nil {
			return err
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepository) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		if _, ok := st.customers[id]; !ok {
			return domain.ErrCustomerNotFound
		}
		for _, inv := range st.invoices {
			if inv.CustomerID == id {
				return domain.ErrConflict
			}
		}
		delete(st.customers, id)
		return nil
	})
}

func checkCustomerUnique(st *state, c *entity.Customer) error {
	for id, other := range st.customers {
		if id == c.ID {
			continue
		}
		if other.Name == c.Name || (c.GSTIN != "" && other.GSTIN == c.GSTIN) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
