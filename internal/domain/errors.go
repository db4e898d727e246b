package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart is returned when checkout is attempted with nothing to sell.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrUnauthorized is returned for bad credentials or tokens.
	ErrUnauthorized = errors.New("invalid credentials or insufficient role access")
	// ErrForbidden is returned when a role lacks the capability for an operation.
	ErrForbidden = errors.New("operation not permitted for role")
)

// ValidationError reports bad input rejected before any storage mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is returned when a guarded stock decrement affected no rows.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock or invalid product id for %s (id %d)", e.ProductName, e.ProductID)
}

// StorageUnavailableError wraps connectivity and permission failures of the store.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// IntegrityError reports a violated storage constraint such as a duplicate product name.
type IntegrityError struct {
	Entity string
	Detail string
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Detail)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var v *InsufficientStockError
	return errors.As(err, &v)
}
