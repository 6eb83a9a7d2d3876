package postgres

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/store"
)

type predicate struct {
	column string
	value  any
}

// Query is the lazy SQL query behind ProductStore.Products. It is
// immutable: Where and Filter return new queries.
type Query[P domain.Entity[K], K comparable] struct {
	q       store.DBTX
	mapping Mapping[P, K]
	where   []predicate
	filters []func(P) bool
	err     error
}

var _ store.Query[*domain.Product[int64]] = (*Query[*domain.Product[int64], int64])(nil)

func newQuery[P domain.Entity[K], K comparable](q store.DBTX, mapping Mapping[P, K]) *Query[P, K] {
	return &Query[P, K]{q: q, mapping: mapping}
}

func (q *Query[P, K]) clone() *Query[P, K] {
	c := *q
	c.where = slices.Clone(q.where)
	c.filters = slices.Clone(q.filters)
	return &c
}

func (q *Query[P, K]) withError(err error) *Query[P, K] {
	c := q.clone()
	if c.err == nil {
		c.err = err
	}
	return c
}

// Where adds an equality predicate on a mapped column.
func (q *Query[P, K]) Where(column string, value any) store.Query[P] {
	return q.where1(column, value)
}

func (q *Query[P, K]) where1(column string, value any) *Query[P, K] {
	if !q.mapping.hasColumn(column) {
		return q.withError(fmt.Errorf("%w: unknown column %q on %s", store.ErrInvalidQuery, column, q.mapping.Table))
	}
	c := q.clone()
	c.where = append(c.where, predicate{column: column, value: value})
	return c
}

// Filter adds a predicate evaluated on loaded entities.
func (q *Query[P, K]) Filter(keep func(P) bool) store.Query[P] {
	if keep == nil {
		return q.withError(&store.ArgumentNilError{Param: "keep"})
	}
	c := q.clone()
	c.filters = append(c.filters, keep)
	return c
}

// SQL returns the statement and arguments All would run.
func (q *Query[P, K]) SQL(limit int) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", quoteAll(q.mapping.selectColumns()), quote(q.mapping.Table))
	args := make([]any, 0, len(q.where))
	for i, p := range q.where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, p.value)
		fmt.Fprintf(&b, "%s = $%d", quote(p.column), len(args))
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	return b.String(), args
}

// All streams matching entities as the caller iterates.
func (q *Query[P, K]) All(ctx context.Context) iter.Seq2[P, error] {
	return q.all(ctx, 0)
}

func (q *Query[P, K]) all(ctx context.Context, limit int) iter.Seq2[P, error] {
	return func(yield func(P, error) bool) {
		var zero P
		if q.err != nil {
			yield(zero, q.err)
			return
		}
		if err := ctx.Err(); err != nil {
			yield(zero, err)
			return
		}

		query, args := q.SQL(limit)
		rows, err := q.q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(zero, MapError(err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			p := q.mapping.New()
			if err := rows.Scan(q.mapping.scanTargets(p)...); err != nil {
				yield(zero, fmt.Errorf("failed to scan %s row: %w", q.mapping.Table, err))
				return
			}
			if !q.keep(p) {
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, MapError(err))
		}
	}
}

func (q *Query[P, K]) keep(p P) bool {
	for _, f := range q.filters {
		if !f(p) {
			return false
		}
	}
	return true
}

// Single returns the only match, the zero P when there is none, or
// store.ErrMultipleResults. Without in-process filters at most two rows
// are read.
func (q *Query[P, K]) Single(ctx context.Context) (P, error) {
	var zero P
	limit := 0
	if len(q.filters) == 0 {
		limit = 2
	}

	var found P
	n := 0
	for p, err := range q.all(ctx, limit) {
		if err != nil {
			return zero, err
		}
		n++
		if n > 1 {
			return zero, fmt.Errorf("%w: %s", store.ErrMultipleResults, q.mapping.Table)
		}
		found = p
	}
	return found, nil
}
