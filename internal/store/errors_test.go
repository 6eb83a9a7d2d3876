package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	cause := errors.New("deadlock detected")

	tests := []struct {
		name     string
		err      *StoreError
		expected string
	}{
		{
			name:     "with wrapped error",
			err:      NewStoreError("products", "update", "statement failed", cause),
			expected: "update products failed: statement failed: deadlock detected",
		},
		{
			name:     "without wrapped error",
			err:      NewStoreError("products", "insert", "no key", nil),
			expected: "insert products failed: no key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}

	assert.ErrorIs(t, NewStoreError("products", "update", "x", cause), cause)
}

func TestErrorClassifiers(t *testing.T) {
	conflict := fmt.Errorf("%w: products 1", ErrConcurrencyConflict)
	duplicate := NewStoreError("products", "insert", "unique", ErrDuplicate)

	assert.True(t, IsConflictError(conflict))
	assert.False(t, IsConflictError(duplicate))
	assert.True(t, IsDuplicateError(duplicate))
	assert.False(t, IsDuplicateError(conflict))
}
