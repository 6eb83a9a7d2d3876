// Package testdb opens the PostgreSQL database used by integration tests.
//
// Tests call Open, which migrates the schema with the embedded migrations
// and closes the pool when the test ends. Without a configured database
// the test is skipped locally and fails in CI, so a misconfigured pipeline
// cannot silently pass.
//
// The database URL is read from CATALOG_TEST_DB_URL, then DATABASE_URL.
package testdb
