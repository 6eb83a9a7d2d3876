package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every store implementation.
var (
	// ErrNilArgument is returned before any I/O when a required argument
	// is nil. The concrete error is an *ArgumentNilError naming the parameter.
	ErrNilArgument = errors.New("argument must not be nil")

	// ErrDisposed is returned by every operation of a closed store or service.
	ErrDisposed = errors.New("object disposed")

	// ErrConcurrencyConflict is returned at commit time when the target row
	// was modified or deleted since it was read.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrNotFound is not returned by stores (absence is a nil result); the
	// API layer uses it to report a missing product.
	ErrNotFound = errors.New("entity not found")

	// ErrMultipleResults is returned when a query expected to match at most
	// one row matched more.
	ErrMultipleResults = errors.New("query matched more than one entity")

	// ErrInvalidQuery is returned when a query references an unknown column.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidEntity is returned when a row violates a database constraint
	// other than uniqueness (foreign key, check, not null).
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed wraps failures to begin or commit a transaction.
	ErrTransactionFailed = errors.New("transaction failed")
)

// ArgumentNilError reports which argument was nil.
type ArgumentNilError struct {
	Param string
}

func (e *ArgumentNilError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNilArgument, e.Param)
}

// Is makes errors.Is(err, ErrNilArgument) match.
func (e *ArgumentNilError) Is(target error) bool {
	return target == ErrNilArgument
}

// IsConflictError reports whether err is a concurrency conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsDuplicateError reports whether err is a uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError adds the entity and operation to an underlying error.
type StoreError struct {
	Entity    string // table or entity name, e.g. "products"
	Operation string // e.g. "insert", "update"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
