// Package api serves the product catalog over HTTP. Handlers decode and
// validate requests, resolve the product service from the per-request
// dependency scope and map store errors to status codes.
package api
