package billing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanket93s/gst-billing-system/internal/application/billing"
	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/pkg/gstin"
)

func TestCustomerUseCase_CRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(f.store.Customers())

	created, err := uc.Create(ctx, dto.CustomerRequest{Name: " Beta Stores ", GSTIN: "29abcde1234f1zw", Address: "MG Road"})
	require.NoError(t, err)
	assert.Equal(t, "Beta Stores", created.Name)
	assert.Equal(t, "29ABCDE1234F1ZW", created.GSTIN)

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "Beta Stores"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "Gamma", GSTIN: "SHORT"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "Gamma", GSTIN: "27AAPFU0939F1ZX"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, gstin.ErrCheckChar)
	_, err = uc.Create(ctx, dto.CustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.Update(ctx, created.ID, dto.CustomerRequest{Name: "Beta Stores", ContactNo: "080-1234"})
	require.NoError(t, err)
	assert.Equal(t, "080-1234", updated.ContactNo)
	assert.Empty(t, updated.GSTIN)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Traders", list[0].Name)

	require.NoError(t, uc.Delete(ctx, created.ID))
	_, err = uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, uuid.NewString()), domain.ErrCustomerNotFound)
}

func TestCustomerUseCase_DeleteReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Create(ctx, f.draft("INV-001", line(f.widget.ID, 1)))
	require.NoError(t, err)

	uc := billing.NewCustomerUseCase(f.store.Customers())
	assert.ErrorIs(t, uc.Delete(ctx, f.customer.ID), domain.ErrConflict)
}
