// Package postgres is the PostgreSQL backend of the product store.
//
// Session is the unit of work: stores stage mutations on it and
// SaveChanges applies them in a single transaction. ProductStore maps a
// product type onto a table through an explicit Mapping, and Query streams
// rows lazily. Migrate applies the embedded goose migrations.
package postgres
