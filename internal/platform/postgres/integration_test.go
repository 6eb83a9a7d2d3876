//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/store"
	"github.com/phrazzld/catalog/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uuidProduct = domain.Product[uuid.UUID]

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := testdb.Open(t)
	testdb.Truncate(t, db, "products")
	return db
}

func newUUIDStore(t *testing.T, db *sql.DB) *postgres.ProductStore[*uuidProduct, uuid.UUID] {
	t.Helper()
	s, err := postgres.NewProductStore(postgres.NewSession(db), postgres.ProductMapping[uuid.UUID]("products"))
	require.NoError(t, err)
	return s
}

func TestIntegrationProductLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := newUUIDStore(t, db)

	p := &uuidProduct{ID: uuid.New(), Name: "Widget"}

	require.NoError(t, s.Create(ctx, p))

	found, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Widget", found.Name)
	assert.Equal(t, int64(1), found.Version)

	found.Name = "Widget v2"
	require.NoError(t, s.Update(ctx, found))

	found, err = s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", found.Name)
	assert.Equal(t, int64(2), found.Version)

	testdb.WithTx(t, db, func(tx *sql.Tx) {
		var version int64
		require.NoError(t, tx.QueryRow(`SELECT version FROM products WHERE id = $1`, p.ID).Scan(&version))
		assert.Equal(t, int64(2), version, "stored version matches the entity")
	})

	require.NoError(t, s.Delete(ctx, found))

	found, err = s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestIntegrationConcurrentUpdate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p := &uuidProduct{ID: uuid.New(), Name: "Widget"}
	require.NoError(t, newUUIDStore(t, db).Create(ctx, p))

	first, second := newUUIDStore(t, db), newUUIDStore(t, db)
	a, err := first.FindByID(ctx, p.ID)
	require.NoError(t, err)
	b, err := second.FindByID(ctx, p.ID)
	require.NoError(t, err)

	a.Name = "first"
	require.NoError(t, first.Update(ctx, a))

	b.Name = "second"
	assert.ErrorIs(t, second.Update(ctx, b), store.ErrConcurrencyConflict)
	assert.ErrorIs(t, second.Delete(ctx, b), store.ErrConcurrencyConflict)
}

func TestIntegrationDuplicateCreate(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id := uuid.New()

	require.NoError(t, newUUIDStore(t, db).Create(ctx, &uuidProduct{ID: id, Name: "a"}))
	err := newUUIDStore(t, db).Create(ctx, &uuidProduct{ID: id, Name: "b"})

	assert.ErrorIs(t, err, store.ErrDuplicate)
}
