package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

const (
	selectByIDSQL = `SELECT "id", "name", "version" FROM "products" WHERE "id" = $1 LIMIT 2`
	selectAllSQL  = `SELECT "id", "name", "version" FROM "products"`
	insertSQL     = `INSERT INTO "products" ("id", "name", "version") VALUES ($1, $2, $3)`
	updateSQL     = `UPDATE "products" SET "name" = $1, "version" = "version" + 1 WHERE "id" = $2 AND "version" = $3`
	deleteSQL     = `DELETE FROM "products" WHERE "id" = $1 AND "version" = $2`
)

type product = domain.Product[int64]

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "version"})
}

func newStore(
	t *testing.T,
	dbc postgres.Context,
	opts ...postgres.StoreOption,
) *postgres.ProductStore[*product, int64] {
	t.Helper()
	s, err := postgres.NewProductStore(dbc, postgres.ProductMapping[int64]("products"), opts...)
	require.NoError(t, err)
	return s
}
