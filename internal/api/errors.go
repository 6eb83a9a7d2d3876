package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/catalog/internal/api/shared"
	"github.com/phrazzld/catalog/internal/di"
	"github.com/phrazzld/catalog/internal/store"
)

// Errors raised by the HTTP layer itself.
var (
	ErrInvalidID      = errors.New("invalid product id")
	ErrInvalidVersion = errors.New("invalid version")
	ErrInvalidRequest = errors.New("invalid request")
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidVersion),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, store.ErrNilArgument),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, store.ErrInvalidQuery):
		return http.StatusBadRequest

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrConcurrencyConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, store.ErrDisposed),
		errors.Is(err, di.ErrScopeClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that leaks
// no internal detail.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, ErrInvalidID):
		return "Invalid product ID"
	case errors.Is(err, ErrInvalidVersion):
		return "Invalid version"
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request format"
	case errors.Is(err, store.ErrNilArgument),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid product data"
	case errors.Is(err, store.ErrInvalidQuery):
		return "Invalid query"
	case errors.Is(err, store.ErrNotFound):
		return "Product not found"
	case errors.Is(err, store.ErrConcurrencyConflict):
		return "The product was modified or deleted by another request"
	case errors.Is(err, store.ErrDuplicate):
		return "Product already exists"
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, store.ErrDisposed),
		errors.Is(err, di.ErrScopeClosed):
		return "Service temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted detail. defaultMsg replaces the safe message for 500s.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns a validator error into a message naming the
// offending field, without the struct path.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()
	if !strings.Contains(errMsg, "Field validation") {
		return "Validation error"
	}

	// Format: "Key: 'CreateProductRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
	parts := strings.Split(errMsg, "Error:")
	if len(parts) < 2 {
		return "Validation error"
	}
	fieldParts := strings.Split(parts[1], "'")
	if len(fieldParts) < 3 {
		return "Validation error"
	}
	field := fieldParts[1]
	if len(fieldParts) >= 5 {
		return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(fieldParts[3]))
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too long"
	default:
		return "validation failed"
	}
}
