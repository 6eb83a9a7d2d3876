package store

import (
	"context"
	"iter"
)

// Query is a lazy, composable view over the entities of a store. Nothing
// is read until All or Single is called, and composing returns a new
// query without modifying the receiver.
type Query[P any] interface {
	// Where restricts the query to rows whose column equals value. The
	// predicate is evaluated by the backend.
	Where(column string, value any) Query[P]

	// Filter restricts the query with a predicate evaluated in process,
	// after rows have been loaded.
	Filter(keep func(P) bool) Query[P]

	// All streams the matching entities. Breaking out of the loop releases
	// the underlying resources. A failure is yielded once as the error and
	// ends the sequence.
	All(ctx context.Context) iter.Seq2[P, error]

	// Single returns the only matching entity, the zero P when nothing
	// matches, or ErrMultipleResults when more than one does.
	Single(ctx context.Context) (P, error)
}
