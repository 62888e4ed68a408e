package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanket93s/gst-billing-system/internal/application/dto"
	"github.com/Sanket93s/gst-billing-system/internal/application/usecase"
	"github.com/Sanket93s/gst-billing-system/internal/domain"
	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/memory"
)

func TestProductUseCase_Create(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	tests := []struct {
		name string
		in   dto.ProductRequest
		want error
	}{
		{"valid", dto.ProductRequest{Name: "Widget", HSNSAC: "8471", UnitPrice: decimal.RequireFromString("99.50"), GSTRate: decimal.NewFromInt(18)}, nil},
		{"zero rate and price", dto.ProductRequest{Name: "Sample", HSNSAC: "0000", UnitPrice: decimal.Zero, GSTRate: decimal.Zero}, nil},
		{"duplicate name", dto.ProductRequest{Name: "Widget", HSNSAC: "8471", UnitPrice: decimal.NewFromInt(1), GSTRate: decimal.NewFromInt(5)}, domain.ErrDuplicate},
		{"missing name", dto.ProductRequest{HSNSAC: "8471"}, domain.ErrInvalidInput},
		{"missing hsn", dto.ProductRequest{Name: "Thing"}, domain.ErrInvalidInput},
		{"negative price", dto.ProductRequest{Name: "Thing", HSNSAC: "1", UnitPrice: decimal.NewFromInt(-1)}, domain.ErrInvalidInput},
		{"rate above 100", dto.ProductRequest{Name: "Thing", HSNSAC: "1", GSTRate: decimal.NewFromInt(101)}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.Create(ctx, tt.in)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.UnitPrice.Equal(tt.in.UnitPrice))
		})
	}
}

func TestProductUseCase_GetUpdateDelete(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.ProductRequest{Name: "Widget", HSNSAC: "8471", UnitPrice: decimal.NewFromInt(100), GSTRate: decimal.NewFromInt(18)})
	require.NoError(t, err)

	up, err := uc.Update(ctx, p.ID, dto.ProductRequest{Name: "Widget", HSNSAC: "8471", UnitPrice: decimal.NewFromInt(120), GSTRate: decimal.NewFromInt(12)})
	require.NoError(t, err)
	assert.True(t, up.UnitPrice.Equal(decimal.NewFromInt(120)))

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.GSTRate.Equal(decimal.NewFromInt(12)))

	list, err := uc.List(ctx, dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Update(ctx, uuid.NewString(), dto.ProductRequest{Name: "X", HSNSAC: "1"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = uc.GetByID(ctx, "bad-id")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, uc.Delete(ctx, p.ID))
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrProductNotFound)
}
