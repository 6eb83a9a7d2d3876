// Package catalog wires product stores and services into a di.Container.
// Registration happens once at startup for each concrete product and key
// type; it performs no I/O.
package catalog

import (
	"database/sql"

	"github.com/phrazzld/catalog/internal/di"
	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/service"
	"github.com/phrazzld/catalog/internal/store"
)

// DefaultName is the catalog name used when none is given.
const DefaultName = "product"

// SessionKey is where AddSessions registers the per-scope database session.
var SessionKey = di.NewKey[*postgres.Session]("postgres.session")

// ServiceKey is the container key of the product service of catalog name.
func ServiceKey[P domain.Entity[K], K comparable](name string) di.Key[*service.ProductService[P, K]] {
	return di.NewKey[*service.ProductService[P, K]](name + ".service")
}

// StoreKey is the container key of the product store of catalog name.
func StoreKey[P domain.Entity[K], K comparable](name string) di.Key[store.ProductStore[P, K]] {
	return di.NewKey[store.ProductStore[P, K]](name + ".store")
}

// Builder adds stores to a registered catalog.
type Builder[P domain.Entity[K], K comparable] struct {
	Name      string
	Container *di.Container
}

type options struct {
	name        string
	serviceOpts []service.Option
}

// Option configures AddCatalog.
type Option func(*options)

// WithName sets the catalog name, which prefixes its container keys.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithServiceOptions passes options to every service the catalog builds.
func WithServiceOptions(opts ...service.Option) Option {
	return func(o *options) { o.serviceOpts = append(o.serviceOpts, opts...) }
}

// AddCatalog registers the scoped product service unless one is already
// registered under the catalog name. The service resolves its store from
// StoreKey, so a store must be added with the returned builder.
func AddCatalog[P domain.Entity[K], K comparable](c *di.Container, opts ...Option) *Builder[P, K] {
	o := options{name: DefaultName}
	for _, opt := range opts {
		opt(&o)
	}

	storeKey := StoreKey[P, K](o.name)
	di.TryRegister(c, ServiceKey[P, K](o.name), di.Scoped, func(s *di.Scope) (*service.ProductService[P, K], error) {
		st, err := di.Resolve(s, storeKey)
		if err != nil {
			return nil, err
		}
		return service.NewProductService(st, o.serviceOpts...)
	})

	return &Builder[P, K]{Name: o.name, Container: c}
}

// AddProductStore registers a custom scoped store. It fails when a store is
// already registered for the catalog.
func (b *Builder[P, K]) AddProductStore(factory di.Factory[store.ProductStore[P, K]]) error {
	return di.Register(b.Container, StoreKey[P, K](b.Name), di.Scoped, factory)
}

// AddSQLStores registers the PostgreSQL store for the catalog, unless a
// store is already registered, built on the database context registered
// under contextKey. Only an invalid mapping is an error.
func AddSQLStores[C postgres.Context, P domain.Entity[K], K comparable](
	b *Builder[P, K],
	contextKey di.Key[C],
	mapping postgres.Mapping[P, K],
	opts ...postgres.StoreOption,
) error {
	if err := mapping.Validate(); err != nil {
		return err
	}
	di.TryRegister(b.Container, StoreKey[P, K](b.Name), di.Scoped, func(s *di.Scope) (store.ProductStore[P, K], error) {
		dbc, err := di.Resolve(s, contextKey)
		if err != nil {
			return nil, err
		}
		ps, err := postgres.NewProductStore[P, K](dbc, mapping, opts...)
		if err != nil {
			return nil, err
		}
		return ps, nil
	})
	return nil
}

// AddSessions registers one postgres.Session per scope over db and returns
// its key.
func AddSessions(c *di.Container, db *sql.DB, opts ...postgres.SessionOption) di.Key[*postgres.Session] {
	di.TryRegister(c, SessionKey, di.Scoped, func(*di.Scope) (*postgres.Session, error) {
		return postgres.NewSession(db, opts...), nil
	})
	return SessionKey
}

// Service resolves the catalog's product service from s.
func (b *Builder[P, K]) Service(s *di.Scope) (*service.ProductService[P, K], error) {
	return di.Resolve(s, ServiceKey[P, K](b.Name))
}

// Store resolves the catalog's product store from s.
func (b *Builder[P, K]) Store(s *di.Scope) (store.ProductStore[P, K], error) {
	return di.Resolve(s, StoreKey[P, K](b.Name))
}
