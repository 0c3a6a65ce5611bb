package billing

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrForbidden   = errors.New("forbidden")
	ErrPersistence = errors.New("persistence_failed")

	ErrNoBillableItems = errors.New("no_billable_items")
	ErrInvalidDiscount = errors.New("invalid_discount")
	ErrInvalidTaxMode  = errors.New("invalid_tax_mode")
	ErrInvalidTaxRate  = errors.New("invalid_tax_rate")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrAmountTooLarge  = errors.New("amount_too_large")
	ErrMissingCustomer = errors.New("missing_customer_details")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidRange    = errors.New("invalid_range")
)

// ValidationError rejects input before any pricing runs.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
