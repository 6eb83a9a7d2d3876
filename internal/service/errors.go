package service

import "fmt"

// ProductServiceError wraps failures to construct or configure a product
// service. Errors from the store are never wrapped in it; they reach the
// caller unchanged.
type ProductServiceError struct {
	// Operation is the operation that failed (e.g. "new_service")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error, if any
	Err error
}

// Error implements the error interface for ProductServiceError.
func (e *ProductServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("product service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("product service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ProductServiceError) Unwrap() error {
	return e.Err
}

// NewProductServiceError creates a new ProductServiceError.
func NewProductServiceError(operation, message string, err error) *ProductServiceError {
	return &ProductServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
