package postgres

import (
	"context"

	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/store"
)

type storeOptions struct {
	autoSave bool
}

// StoreOption configures a ProductStore.
type StoreOption func(*storeOptions)

// WithAutoSaveChanges controls whether each mutation commits immediately
// (the default) or waits for the caller to call SaveChanges on the context.
func WithAutoSaveChanges(enabled bool) StoreOption {
	return func(o *storeOptions) { o.autoSave = enabled }
}

// ProductStore implements store.ProductStore over a database Context.
type ProductStore[P domain.Entity[K], K comparable] struct {
	guard    store.Guard
	dbc      Context
	mapping  Mapping[P, K]
	autoSave bool
}

var _ store.ProductStore[*domain.Product[int64], int64] = (*ProductStore[*domain.Product[int64], int64])(nil)

// NewProductStore creates a store for the mapped table. The store never
// closes dbc.
func NewProductStore[P domain.Entity[K], K comparable](
	dbc Context,
	mapping Mapping[P, K],
	opts ...StoreOption,
) (*ProductStore[P, K], error) {
	if dbc == nil {
		return nil, &store.ArgumentNilError{Param: "dbc"}
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	o := storeOptions{autoSave: true}
	for _, opt := range opts {
		opt(&o)
	}
	mapping = mapping.withDefaults()
	return &ProductStore[P, K]{
		guard:    store.NewGuard("product store " + mapping.Table),
		dbc:      dbc,
		mapping:  mapping,
		autoSave: o.autoSave,
	}, nil
}

// AutoSaveChanges reports whether mutations commit immediately.
func (s *ProductStore[P, K]) AutoSaveChanges() bool {
	return s.autoSave
}

// Context returns the database context the store stages writes on.
func (s *ProductStore[P, K]) Context() Context {
	return s.dbc
}

// Products returns a lazy query over the table.
func (s *ProductStore[P, K]) Products() store.Query[P] {
	return s.query()
}

func (s *ProductStore[P, K]) query() *Query[P, K] {
	q := newQuery(s.dbc.Querier(), s.mapping)
	if err := s.guard.CheckDisposed(); err != nil {
		return q.withError(err)
	}
	return q
}

// FindByID returns the product with the given key, or the zero P when
// there is none.
func (s *ProductStore[P, K]) FindByID(ctx context.Context, id K) (P, error) {
	var zero P
	if err := s.guard.Check(ctx); err != nil {
		return zero, err
	}
	return s.query().where1(s.mapping.KeyColumn, id).Single(ctx)
}

// Create stages an insert of product.
func (s *ProductStore[P, K]) Create(ctx context.Context, product P) error {
	if err := s.checkMutation(ctx, product); err != nil {
		return err
	}
	s.dbc.Stage(s.insert(product))
	return s.save(ctx)
}

// Update stages an update of product guarded by its version.
func (s *ProductStore[P, K]) Update(ctx context.Context, product P) error {
	if err := s.checkMutation(ctx, product); err != nil {
		return err
	}
	s.dbc.Stage(s.update(product))
	return s.save(ctx)
}

// Delete stages a delete of product guarded by its version.
func (s *ProductStore[P, K]) Delete(ctx context.Context, product P) error {
	if err := s.checkMutation(ctx, product); err != nil {
		return err
	}
	s.dbc.Stage(s.delete(product))
	return s.save(ctx)
}

// Close disposes the store. It is safe to call more than once.
func (s *ProductStore[P, K]) Close() error {
	s.guard.Dispose()
	return nil
}

func (s *ProductStore[P, K]) checkMutation(ctx context.Context, product P) error {
	if err := s.guard.Check(ctx); err != nil {
		return err
	}
	return store.CheckProduct(product)
}

// save commits the session when auto-save is on. Errors, conflicts
// included, are returned as is.
func (s *ProductStore[P, K]) save(ctx context.Context) error {
	if !s.autoSave {
		return nil
	}
	_, err := s.dbc.SaveChanges(ctx)
	return err
}

func (s *ProductStore[P, K]) insert(p P) Mutation {
	m := s.mapping
	base := p.Base()
	var prevID K
	var prevVersion int64
	return Mutation{
		Operation: OpInsert,
		Entity:    p,
		Exec: func(ctx context.Context, q store.DBTX) error {
			args := make([]any, 0, len(m.Columns)+2)
			if !m.GeneratedKey {
				args = append(args, base.ID)
			}
			args = append(args, m.Values(p)...)
			if m.versioned() {
				args = append(args, int64(1))
			}

			prevID, prevVersion = base.ID, base.Version
			if m.GeneratedKey {
				var id K
				if err := q.QueryRowContext(ctx, m.insertSQL(), args...).Scan(&id); err != nil {
					return store.NewStoreError(m.Table, string(OpInsert), "failed to insert row", MapError(err))
				}
				base.ID = id
			} else if _, err := q.ExecContext(ctx, m.insertSQL(), args...); err != nil {
				return store.NewStoreError(m.Table, string(OpInsert), "failed to insert row", MapError(err))
			}
			if m.versioned() {
				base.Version = 1
			}
			return nil
		},
		Revert: func() {
			base.ID, base.Version = prevID, prevVersion
		},
	}
}

func (s *ProductStore[P, K]) update(p P) Mutation {
	m := s.mapping
	base := p.Base()
	var prevVersion int64
	return Mutation{
		Operation: OpUpdate,
		Entity:    p,
		Exec: func(ctx context.Context, q store.DBTX) error {
			args := make([]any, 0, len(m.Columns)+2)
			args = append(args, m.Values(p)...)
			args = append(args, base.ID)
			if m.versioned() {
				args = append(args, base.Version)
			}

			res, err := q.ExecContext(ctx, m.updateSQL(), args...)
			if err != nil {
				return store.NewStoreError(m.Table, string(OpUpdate), "failed to update row", MapError(err))
			}
			if err := checkRowsAffected(res, m.Table, string(OpUpdate)); err != nil {
				return err
			}
			prevVersion = base.Version
			if m.versioned() {
				base.Version++
			}
			return nil
		},
		Revert: func() {
			base.Version = prevVersion
		},
	}
}

func (s *ProductStore[P, K]) delete(p P) Mutation {
	m := s.mapping
	base := p.Base()
	return Mutation{
		Operation: OpDelete,
		Entity:    p,
		Exec: func(ctx context.Context, q store.DBTX) error {
			args := []any{base.ID}
			if m.versioned() {
				args = append(args, base.Version)
			}
			res, err := q.ExecContext(ctx, m.deleteSQL(), args...)
			if err != nil {
				return store.NewStoreError(m.Table, string(OpDelete), "failed to delete row", MapError(err))
			}
			return checkRowsAffected(res, m.Table, string(OpDelete))
		},
	}
}
