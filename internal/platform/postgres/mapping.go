package postgres

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/store"
)

// Default column names.
const (
	DefaultKeyColumn     = "id"
	DefaultVersionColumn = "version"
)

// Mapping describes how a product type is stored in a table. The key and
// version columns are read and written through the embedded
// domain.Product; Columns, Values and Targets cover everything else, in
// the same order.
type Mapping[P domain.Entity[K], K comparable] struct {
	Table string
	// KeyColumn defaults to "id".
	KeyColumn string
	// VersionColumn holds the optimistic concurrency token. Set it to "-"
	// to map a table without one.
	VersionColumn string
	Columns       []string
	// GeneratedKey leaves the key to the database: it is omitted from
	// inserts and read back with RETURNING.
	GeneratedKey bool

	// New allocates an empty entity to scan into.
	New func() P
	// Values returns the column values of p, one per entry of Columns.
	Values func(p P) []any
	// Targets returns scan destinations in p, one per entry of Columns.
	Targets func(p P) []any
}

// NoVersionColumn disables optimistic concurrency for a mapping.
const NoVersionColumn = "-"

// ProductMapping maps *domain.Product[K] onto table with a single name
// column.
func ProductMapping[K comparable](table string) Mapping[*domain.Product[K], K] {
	return Mapping[*domain.Product[K], K]{
		Table:   table,
		Columns: []string{"name"},
		New:     func() *domain.Product[K] { return &domain.Product[K]{} },
		Values:  func(p *domain.Product[K]) []any { return []any{p.Name} },
		Targets: func(p *domain.Product[K]) []any { return []any{&p.Name} },
	}
}

// withDefaults returns a copy with default column names filled in.
func (m Mapping[P, K]) withDefaults() Mapping[P, K] {
	if m.KeyColumn == "" {
		m.KeyColumn = DefaultKeyColumn
	}
	switch m.VersionColumn {
	case "":
		m.VersionColumn = DefaultVersionColumn
	case NoVersionColumn:
		m.VersionColumn = ""
	}
	return m
}

// Validate reports whether the mapping can be used to build a store.
func (m Mapping[P, K]) Validate() error {
	m = m.withDefaults()
	if strings.TrimSpace(m.Table) == "" {
		return fmt.Errorf("%w: mapping has no table", store.ErrInvalidEntity)
	}
	if m.New == nil || m.Values == nil || m.Targets == nil {
		return fmt.Errorf("%w: mapping for %s must set New, Values and Targets", store.ErrInvalidEntity, m.Table)
	}
	seen := map[string]bool{m.KeyColumn: true}
	if m.VersionColumn != "" {
		if seen[m.VersionColumn] {
			return fmt.Errorf("%w: duplicate column %q in mapping for %s", store.ErrInvalidEntity, m.VersionColumn, m.Table)
		}
		seen[m.VersionColumn] = true
	}
	for _, c := range m.Columns {
		if c == "" || seen[c] {
			return fmt.Errorf("%w: duplicate or empty column %q in mapping for %s", store.ErrInvalidEntity, c, m.Table)
		}
		seen[c] = true
	}
	if len(m.Columns) == 0 && m.VersionColumn == "" {
		return fmt.Errorf("%w: mapping for %s has nothing to update", store.ErrInvalidEntity, m.Table)
	}
	return nil
}

func (m Mapping[P, K]) versioned() bool {
	return m.VersionColumn != ""
}

// selectColumns lists key, columns and version in scan order.
func (m Mapping[P, K]) selectColumns() []string {
	cols := make([]string, 0, len(m.Columns)+2)
	cols = append(cols, m.KeyColumn)
	cols = append(cols, m.Columns...)
	if m.versioned() {
		cols = append(cols, m.VersionColumn)
	}
	return cols
}

func (m Mapping[P, K]) hasColumn(name string) bool {
	for _, c := range m.selectColumns() {
		if c == name {
			return true
		}
	}
	return false
}

func (m Mapping[P, K]) scanTargets(p P) []any {
	base := p.Base()
	targets := make([]any, 0, len(m.Columns)+2)
	targets = append(targets, &base.ID)
	targets = append(targets, m.Targets(p)...)
	if m.versioned() {
		targets = append(targets, &base.Version)
	}
	return targets
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

func (m Mapping[P, K]) insertSQL() string {
	cols := make([]string, 0, len(m.Columns)+2)
	if !m.GeneratedKey {
		cols = append(cols, m.KeyColumn)
	}
	cols = append(cols, m.Columns...)
	if m.versioned() {
		cols = append(cols, m.VersionColumn)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(m.Table), quoteAll(cols), placeholders(1, len(cols)))
	if m.GeneratedKey {
		query += " RETURNING " + quote(m.KeyColumn)
	}
	return query
}

func (m Mapping[P, K]) updateSQL() string {
	sets := make([]string, 0, len(m.Columns)+1)
	for i, c := range m.Columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", quote(c), i+1))
	}
	if m.versioned() {
		v := quote(m.VersionColumn)
		sets = append(sets, fmt.Sprintf("%s = %s + 1", v, v))
	}
	n := len(m.Columns)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", quote(m.Table), strings.Join(sets, ", "), quote(m.KeyColumn), n+1)
	if m.versioned() {
		query += fmt.Sprintf(" AND %s = $%d", quote(m.VersionColumn), n+2)
	}
	return query
}

func (m Mapping[P, K]) deleteSQL() string {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", quote(m.Table), quote(m.KeyColumn))
	if m.versioned() {
		query += fmt.Sprintf(" AND %s = $2", quote(m.VersionColumn))
	}
	return query
}
