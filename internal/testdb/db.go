package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/catalog/internal/config"
	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/redact"
	"github.com/stretchr/testify/require"
)

// Timeout bounds connecting and migrating.
const Timeout = 30 * time.Second

// Open connects to the test database and migrates it to the latest
// schema. The pool is closed when t ends.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		if IsCI() {
			t.Fatalf("%s or %s must be set in CI", EnvTestDBURL, EnvDatabaseURL)
		}
		t.Skipf("%s not set; skipping database test", EnvTestDBURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 4, MaxIdleConns: 2})
	require.NoError(t, err, "failed to connect to %s", redact.DatabaseURL(url))
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	require.NoError(t, postgres.Migrate(ctx, db, nil, "up"), "failed to migrate test database")
	return db
}

// WithTx runs fn in a transaction that is rolled back afterwards.
func WithTx(t testing.TB, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(tx)
}

// Truncate empties table now and again when t ends.
func Truncate(t testing.TB, db *sql.DB, table string) {
	t.Helper()

	stmt := "TRUNCATE TABLE " + pgx.Identifier{table}.Sanitize()
	_, err := db.Exec(stmt)
	require.NoError(t, err, "failed to truncate %s", table)
	t.Cleanup(func() {
		if _, err := db.Exec(stmt); err != nil {
			t.Logf("failed to truncate %s: %v", table, err)
		}
	})
}
