package memory

import (
	"context"
	"sort"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
)

type productRow = entity.Product

// ProductRepository implements repository.ProductRepository.
type ProductRepository struct {
	view
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.write(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := checkProductUnique(st, p); err != nil {
			return err
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(ids))
	r.read(func(st *state) {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out = append(out, &p)
			}
		}
	})
	return out, nil
}

func (r *ProductRepository) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var all []*entity.Product
	r.read(func(st *state) {
		all = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, &p)
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

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	return r.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrProductNotFound
		}
		if err := checkProductUnique(st, p); err != nil {
			return err
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.write(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrProductNotFound
		}
		for _, it := range st.items {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(st.products, id)
		return nil
	})
}

func checkProductUnique(st *state, p *entity.Product) error {
	for id, other := range st.products {
		if id != p.ID && other.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	return nil
}
