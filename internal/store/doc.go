// Package store defines the persistence contracts of the catalog.
// ProductStore is the generic CRUD contract every backend implements;
// Guard and CheckProduct give implementations the shared entry checks
// (cancellation, disposal, nil arguments) so each store only has to
// supply persistence. The sentinel errors here are the error taxonomy
// callers test against with errors.Is.
package store
