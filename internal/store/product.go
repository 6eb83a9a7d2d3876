package store

import (
	"context"
	"io"

	"github.com/phrazzld/catalog/internal/domain"
)

// ProductStore is the persistence contract for one product type P keyed
// by K.
//
// FindByID, Create, Update and Delete check, in order: cancellation
// (returning ctx.Err()), disposal (ErrDisposed) and, for mutations, a nil
// product (ErrNilArgument). A store instance belongs to a single unit of
// work and is not safe for concurrent use.
type ProductStore[P domain.Entity[K], K comparable] interface {
	// FindByID returns the product with the given key, or the zero P and a
	// nil error when there is none.
	FindByID(ctx context.Context, id K) (P, error)

	// Create persists a new product. A duplicate key fails with ErrDuplicate.
	Create(ctx context.Context, product P) error

	// Update persists changes to an existing product. It fails with
	// ErrConcurrencyConflict when the row changed or vanished since the
	// product was loaded.
	Update(ctx context.Context, product P) error

	// Delete removes the product, failing with ErrConcurrencyConflict under
	// the same condition as Update.
	Delete(ctx context.Context, product P) error

	// Products returns a lazy query over every product in the store.
	Products() Query[P]

	// Close releases the store. Subsequent operations fail with ErrDisposed.
	io.Closer
}
