package store

import (
	"context"
	"fmt"
)

// Guard tracks whether a store or service has been closed. It is embedded
// as a field and is not safe for concurrent use, matching the one unit of
// work per instance model of the stores.
type Guard struct {
	name     string
	disposed bool
}

// NewGuard returns an open guard. name identifies the owner in errors.
func NewGuard(name string) Guard {
	return Guard{name: name}
}

// Check is the entry check of every store operation: a cancelled context
// wins over disposal, so callers see ctx.Err() first.
func (g *Guard) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.CheckDisposed()
}

// CheckDisposed returns ErrDisposed once Dispose has been called.
func (g *Guard) CheckDisposed() error {
	if g.disposed {
		return fmt.Errorf("%w: %s", ErrDisposed, g.name)
	}
	return nil
}

// Dispose marks the owner closed. Calling it again has no effect.
func (g *Guard) Dispose() {
	g.disposed = true
}

// Disposed reports whether Dispose has been called.
func (g *Guard) Disposed() bool {
	return g.disposed
}

// CheckProduct returns an *ArgumentNilError when product is nil.
func CheckProduct[P comparable](product P) error {
	var zero P
	if product == zero {
		return &ArgumentNilError{Param: "product"}
	}
	return nil
}
