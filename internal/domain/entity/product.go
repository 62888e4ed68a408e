package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. UnitPrice and GSTRate form the current price list;
// invoices copy them onto their lines at billing time and never read them back.
type Product struct {
	ID          string
	Name        string
	HSNSAC      string // HSN (goods) or SAC (services) classification code
	UnitPrice   decimal.Decimal
	GSTRate     decimal.Decimal // percent, 0-100
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
