package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const (
	invoiceColumns = `id, invoice_number, invoice_date, customer_id, payment_status, notes,
		subtotal_before_tax, total_tax, grand_total, version, created_at, updated_at`
	itemColumns = `id, invoice_id, product_id, position, quantity, unit_price, gst_rate,
		line_subtotal, line_tax, line_total`
)

// InvoiceRepo implements InvoiceRepository over a pool or a tx.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, invoice_number, invoice_date, customer_id, payment_status, notes,
			subtotal_before_tax, total_tax, grand_total, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.Date, inv.CustomerID, string(inv.PaymentStatus), inv.Notes,
		inv.SubtotalBeforeTax, inv.TotalTax, inv.GrandTotal, inv.Version, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert invoice", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, position, quantity, unit_price, gst_rate,
			line_subtotal, line_tax, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, it.ProductID, it.Position, it.Quantity, it.UnitPrice, it.GSTRate,
		it.LineSubtotal, it.LineTax, it.LineTotal,
	)
	if err != nil {
		return mapWriteError("insert invoice item", err)
	}
	return nil
}

// Update is a compare-and-set on version.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice, expectedVersion int) error {
	query := `
		UPDATE invoices
		SET invoice_number = $3, invoice_date = $4, customer_id = $5, payment_status = $6, notes = $7,
			subtotal_before_tax = $8, total_tax = $9, grand_total = $10, updated_at = $11,
			version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, expectedVersion, inv.Number, inv.Date, inv.CustomerID, string(inv.PaymentStatus), inv.Notes,
		inv.SubtotalBeforeTax, inv.TotalTax, inv.GrandTotal, inv.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update invoice", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE id = $1)`, inv.ID).Scan(&exists); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if !exists {
			return domain.ErrInvoiceNotFound
		}
		return domain.ErrConflict
	}
	inv.Version = expectedVersion + 1
	return nil
}

func (r *InvoiceRepo) DeleteItems(ctx context.Context, invoiceID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for the lines.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY invoice_date DESC, created_at DESC, id`
	return r.list(ctx, "list invoices", query)
}

func (r *InvoiceRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + ` FROM invoices
		WHERE invoice_date BETWEEN $1::date AND $2::date
		ORDER BY invoice_date, invoice_number`
	return r.list(ctx, "list invoices by date", query, from, to)
}

func (r *InvoiceRepo) ItemsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.InvoiceItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) ItemsByInvoiceIDs(ctx context.Context, invoiceIDs []string) (map[string][]*entity.InvoiceItem, error) {
	out := make(map[string][]*entity.InvoiceItem, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = ANY($1::uuid[]) ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out[it.InvoiceID] = append(out[it.InvoiceID], it)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv    entity.Invoice
		status string
	)
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date, &inv.CustomerID, &status, &inv.Notes,
		&inv.SubtotalBeforeTax, &inv.TotalTax, &inv.GrandTotal, &inv.Version, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PaymentStatus = entity.PaymentStatus(status)
	inv.Date = inv.Date.UTC()
	return &inv, nil
}

func scanItem(row pgx.Row) (*entity.InvoiceItem, error) {
	var it entity.InvoiceItem
	err := row.Scan(
		&it.ID, &it.InvoiceID, &it.ProductID, &it.Position, &it.Quantity, &it.UnitPrice, &it.GSTRate,
		&it.LineSubtotal, &it.LineTax, &it.LineTotal,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
