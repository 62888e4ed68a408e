package entity

import "time"

// Customer is a billed party. GSTIN is optional and unique when present.
type Customer struct {
	ID        string
	Name      string
	ContactNo string
	Email     string
	Address   string
	GSTIN     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
