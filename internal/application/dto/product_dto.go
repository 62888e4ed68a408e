package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest body for POST and PUT /api/products.
// UnitPrice and GSTRate bounds are checked by the use case.
type ProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	HSNSAC      string          `json:"hsn_sac" validate:"required,max=16"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Description string          `json:"description" validate:"max=1000"`
}

// ProductResponse product in responses.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	HSNSAC      string          `json:"hsn_sac"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
