package core

import (
	"errors"
	"fmt"
)

// Sentinel categories. Use errors.Is against these to classify any error
// returned by the ledger.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

var (
	ErrEmptyName           = &ValidationError{Field: "name", Reason: "must not be empty"}
	ErrNameTooLong         = &ValidationError{Field: "name", Reason: "too long (max 200 characters)"}
	ErrInvalidAmount       = &ValidationError{Field: "amount", Reason: "not a valid decimal amount"}
	ErrNegativeAmount      = &ValidationError{Field: "amount", Reason: "must not be negative"}
	ErrAmountTooLarge      = &ValidationError{Field: "amount", Reason: "exceeds 1000000000000.00 in magnitude"}
	ErrInvalidDate         = &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	ErrInvalidCount        = &ValidationError{Field: "installments", Reason: "must be a positive integer"}
	ErrTooManyInstallments = &ValidationError{Field: "installments", Reason: "must be at most 360"}
	ErrInvalidMonth        = &ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	ErrInstallmentIndex    = &ValidationError{Field: "installment_index", Reason: "must be between 1 and the installment count"}
)

// ValidationError reports malformed input. It is always returned before any
// write reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Record kinds used in NotFoundError.
const (
	KindReceivable       = "receivable"
	KindPayable          = "payable"
	KindInstallmentGroup = "installment group"
)

// NotFoundError reports an update or delete that matched no rows.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a failure of the underlying record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
