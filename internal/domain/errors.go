package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicate       = errors.New("duplicate resource")
	ErrConflict        = errors.New("conflict with current state")
	ErrBadReference    = errors.New("missing or invalid reference")
	ErrEmptyInvoice    = errors.New("invoice must have at least one line item")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrRenderIO        = errors.New("document rendering failed")
)

// Typed not-found errors. Each matches ErrNotFound under errors.Is.
var (
	ErrCustomerNotFound error = notFoundError{resource: "customer"}
	ErrProductNotFound  error = notFoundError{resource: "product"}
	ErrInvoiceNotFound  error = notFoundError{resource: "invoice"}
)

type notFoundError struct {
	resource string
}

func (e notFoundError) Error() string { return e.resource + " not found" }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }
