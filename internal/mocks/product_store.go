package mocks

import (
	"context"

	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/store"
)

// MockProductStore implements store.ProductStore for testing
type MockProductStore[P domain.Entity[K], K comparable] struct {
	// Custom behavior functions
	FindByIDFn func(ctx context.Context, id K) (P, error)
	CreateFn   func(ctx context.Context, product P) error
	UpdateFn   func(ctx context.Context, product P) error
	DeleteFn   func(ctx context.Context, product P) error
	ProductsFn func() store.Query[P]
	CloseFn    func() error

	// Default return values
	Product      P
	DefaultError error

	// CloseCalls counts Close invocations.
	CloseCalls int
}

// FindByID implements the ProductStore.FindByID method
func (m *MockProductStore[P, K]) FindByID(ctx context.Context, id K) (P, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return m.Product, m.DefaultError
}

// Create implements the ProductStore.Create method
func (m *MockProductStore[P, K]) Create(ctx context.Context, product P) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, product)
	}
	return m.DefaultError
}

// Update implements the ProductStore.Update method
func (m *MockProductStore[P, K]) Update(ctx context.Context, product P) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, product)
	}
	return m.DefaultError
}

// Delete implements the ProductStore.Delete method
func (m *MockProductStore[P, K]) Delete(ctx context.Context, product P) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, product)
	}
	return m.DefaultError
}

// Products implements the ProductStore.Products method
func (m *MockProductStore[P, K]) Products() store.Query[P] {
	if m.ProductsFn != nil {
		return m.ProductsFn()
	}
	return nil
}

// Close implements the ProductStore.Close method
func (m *MockProductStore[P, K]) Close() error {
	m.CloseCalls++
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}
