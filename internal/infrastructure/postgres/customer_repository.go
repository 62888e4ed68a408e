package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, contact_no, COALESCE(email, ''), address, COALESCE(gstin, ''), created_at, updated_at`

// CustomerRepo implements CustomerRepository over a pool or a tx.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository builds the adapter.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create inserts a customer. Blank email and GSTIN are stored as NULL.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, contact_no, email, address, gstin, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.ContactNo, c.Email, c.Address, c.GSTIN, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert customer", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Customer, error) {
	if len(ids) == 0 {
		return []*entity.Customer{}, nil
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ANY($1::uuid[]) ORDER BY name`
	return r.list(ctx, "get customers", query, ids)
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name, id LIMIT $1 OFFSET $2`
	return r.list(ctx, "list customers", query, limit, offset)
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, contact_no = $3, email = NULLIF($4, ''), address = $5, gstin = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.ContactNo, c.Email, c.Address, c.GSTIN, c.UpdatedAt)
	if err != nil {
		return mapWriteError("update customer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// Delete fails with domain.ErrConflict while an invoice references the customer.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete customer", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*entity.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.ContactNo, &c.Email, &c.Address, &c.GSTIN, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
