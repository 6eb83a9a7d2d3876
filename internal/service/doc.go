// Package service provides the product service facade: it owns one product
// store, forwards calls to it after its own disposal check, traces each
// call and closes the store exactly once.
package service
