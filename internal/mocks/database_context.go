package mocks

import (
	"context"

	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/store"
)

// MockDatabaseContext implements postgres.Context for testing. Staged
// mutations are recorded and, unless SaveChangesFn is set, SaveChanges
// reports them as written without running them.
type MockDatabaseContext struct {
	QuerierFn     func() store.DBTX
	SaveChangesFn func(ctx context.Context) (int, error)

	Staged    []postgres.Mutation
	SaveCalls int
}

// Querier implements the Context.Querier method
func (m *MockDatabaseContext) Querier() store.DBTX {
	if m.QuerierFn != nil {
		return m.QuerierFn()
	}
	return nil
}

// Stage implements the Context.Stage method
func (m *MockDatabaseContext) Stage(mu postgres.Mutation) {
	m.Staged = append(m.Staged, mu)
}

// SaveChanges implements the Context.SaveChanges method
func (m *MockDatabaseContext) SaveChanges(ctx context.Context) (int, error) {
	m.SaveCalls++
	if m.SaveChangesFn != nil {
		return m.SaveChangesFn(ctx)
	}
	n := len(m.Staged)
	m.Staged = nil
	return n, nil
}
