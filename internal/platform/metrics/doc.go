// Package metrics defines the Prometheus collectors exported by the
// catalog: unit-of-work commits, staged mutations, optimistic concurrency
// conflicts and HTTP request traffic.
package metrics
