package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/domain/entity"
	"github.com/Sanket93s/gst-billing-system/internal/domain/repository"
	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) (*entity.Customer, *entity.Product) {
	t.Helper()
	ctx := context.Background()
	c := &entity.Customer{ID: uuid.NewString(), Name: "Acme Traders", GSTIN: "27AAPFU0939F1ZV"}
	p := &entity.Product{ID: uuid.NewString(), Name: "Widget", HSNSAC: "8471",
		UnitPrice: decimal.NewFromInt(100), GSTRate: decimal.NewFromInt(18)}
	require.NoError(t, s.Customers().Create(ctx, c))
	require.NoError(t, s.Products().Create(ctx, p))
	return c, p
}

func newInvoice(customerID, number string, date time.Time) *entity.Invoice {
	return &entity.Invoice{ID: uuid.NewString(), Number: number, Date: date,
		CustomerID: customerID, PaymentStatus: entity.PaymentPending, Version: 1}
}

func newItem(invoiceID, productID string, pos int) *entity.InvoiceItem {
	return &entity.InvoiceItem{ID: uuid.NewString(), InvoiceID: invoiceID, ProductID: productID,
		Position: pos, Quantity: 1}
}

func TestRunBilling_RollsBackOnError(t *testing.T) {
	s := memory.NewStore()
	c, _ := seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	err := s.RunBilling(ctx, func(_ repository.CustomerRepository, _ repository.ProductRepository, ir repository.InvoiceRepository) error {
		require.NoError(t, ir.Create(ctx, inv))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunBilling_UncommittedWorkIsInvisible(t *testing.T) {
	s := memory.NewStore()
	c, _ := seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	seen := make(chan *entity.Invoice, 1)
	err := s.RunBilling(ctx, func(_ repository.CustomerRepository, _ repository.ProductRepository, ir repository.InvoiceRepository) error {
		require.NoError(t, ir.Create(ctx, inv))
		inTx, err := ir.GetByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, inTx)

		go func() {
			got, _ := s.Invoices().GetByID(ctx, inv.ID)
			seen <- got
		}()
		select {
		case got := <-seen:
			assert.Nil(t, got)
		case <-time.After(2 * time.Second):
			t.Error("read outside the transaction blocked")
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadSnapshot_ReadOnly(t *testing.T) {
	s := memory.NewStore()
	c, p := seed(t, s)
	ctx := context.Background()

	err := s.ReadSnapshot(ctx, func(cr repository.CustomerRepository, pr repository.ProductRepository, ir repository.InvoiceRepository) error {
		got, err := cr.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Name, got.Name)
		products, err := pr.GetByIDs(ctx, []string{p.ID})
		require.NoError(t, err)
		assert.Len(t, products, 1)

		assert.Error(t, ir.Create(ctx, newInvoice(c.ID, "INV-1", time.Now())))
		assert.Error(t, pr.Delete(ctx, p.ID))
		return nil
	})
	require.NoError(t, err)

	list, err := s.Invoices().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReadSnapshot_CommitWaitsForReader(t *testing.T) {
	s := memory.NewStore()
	c, _ := seed(t, s)
	ctx := context.Background()

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	committed := make(chan error, 1)
	err := s.ReadSnapshot(ctx, func(_ repository.CustomerRepository, _ repository.ProductRepository, ir repository.InvoiceRepository) error {
		go func() {
			committed <- s.RunBilling(ctx, func(_ repository.CustomerRepository, _ repository.ProductRepository, w repository.InvoiceRepository) error {
				return w.Create(ctx, inv)
			})
		}()
		time.Sleep(50 * time.Millisecond)
		list, err := ir.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, <-committed)

	got, err := s.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRunBilling_Commits(t *testing.T) {
	s := memory.NewStore()
	c, p := seed(t, s)
	ctx := context.Background()

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	err := s.RunBilling(ctx, func(_ repository.CustomerRepository, _ repository.ProductRepository, ir repository.InvoiceRepository) error {
		if err := ir.Create(ctx, inv); err != nil {
			return err
		}
		return ir.CreateItem(ctx, newItem(inv.ID, p.ID, 1))
	})
	require.NoError(t, err)

	items, err := s.Invoices().ItemsByInvoiceID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUniqueness(t *testing.T) {
	s := memory.NewStore()
	c, p := seed(t, s)
	ctx := context.Background()

	err := s.Customers().Create(ctx, &entity.Customer{ID: uuid.NewString(), Name: c.Name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	err = s.Customers().Create(ctx, &entity.Customer{ID: uuid.NewString(), Name: "Other", GSTIN: c.GSTIN})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	// blank GSTIN is not unique
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: uuid.NewString(), Name: "A"}))
	require.NoError(t, s.Customers().Create(ctx, &entity.Customer{ID: uuid.NewString(), Name: "B"}))

	err = s.Products().Create(ctx, &entity.Product{ID: uuid.NewString(), Name: p.Name})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Invoices().Create(ctx, newInvoice(c.ID, "INV-1", day)))
	assert.ErrorIs(t, s.Invoices().Create(ctx, newInvoice(c.ID, "INV-1", day)), domain.ErrDuplicate)
}

func TestDelete_RestrictAndCascade(t *testing.T) {
	s := memory.NewStore()
	c, p := seed(t, s)
	ctx := context.Background()

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Invoices().Create(ctx, inv))
	require.NoError(t, s.Invoices().CreateItem(ctx, newItem(inv.ID, p.ID, 1)))

	assert.ErrorIs(t, s.Customers().Delete(ctx, c.ID), domain.ErrConflict)
	assert.ErrorIs(t, s.Products().Delete(ctx, p.ID), domain.ErrConflict)

	require.NoError(t, s.Invoices().Delete(ctx, inv.ID))
	items, err := s.Invoices().ItemsByInvoiceIDs(ctx, []string{inv.ID})
	require.NoError(t, err)
	assert.Empty(t, items[inv.ID])

	assert.ErrorIs(t, s.Invoices().Delete(ctx, inv.ID), domain.ErrInvoiceNotFound)
	assert.NoError(t, s.Products().Delete(ctx, p.ID))
	assert.NoError(t, s.Customers().Delete(ctx, c.ID))
	assert.ErrorIs(t, s.Customers().Delete(ctx, c.ID), domain.ErrCustomerNotFound)
}

func TestCreateItem_RequiresParents(t *testing.T) {
	s := memory.NewStore()
	_, p := seed(t, s)
	err := s.Invoices().CreateItem(context.Background(), newItem(uuid.NewString(), p.ID, 1))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate_Version(t *testing.T) {
	s := memory.NewStore()
	c, _ := seed(t, s)
	ctx := context.Background()

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Invoices().Create(ctx, inv))

	next := *inv
	next.Notes = "paid by cheque"
	require.NoError(t, s.Invoices().Update(ctx, &next, 1))
	assert.Equal(t, 2, next.Version)

	stale := *inv
	assert.ErrorIs(t, s.Invoices().Update(ctx, &stale, 1), domain.ErrConflict)

	got, err := s.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid by cheque", got.Notes)
	assert.Equal(t, 2, got.Version)
}

func TestListByDateRange_Inclusive(t *testing.T) {
	s := memory.NewStore()
	c, _ := seed(t, s)
	ctx := context.Background()

	for i, d := range []string{"2024-02-29", "2024-03-01", "2024-03-15", "2024-03-31", "2024-04-01"} {
		date, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		require.NoError(t, s.Invoices().Create(ctx, newInvoice(c.ID, "INV-"+string(rune('A'+i)), date)))
	}
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	got, err := s.Invoices().ListByDateRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.Equal(from))
	assert.True(t, got[2].Date.Equal(to))
}

func TestItemsOrderedByPosition(t *testing.T) {
	s := memory.NewStore()
	c, p := seed(t, s)
	ctx := context.Background()

	inv := newInvoice(c.ID, "INV-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Invoices().Create(ctx, inv))
	for _, pos := range []int{3, 1, 2} {
		require.NoError(t, s.Invoices().CreateItem(ctx, newItem(inv.ID, p.ID, pos)))
	}
	items, err := s.Invoices().ItemsByInvoiceID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, i+1, it.Position)
	}
}
