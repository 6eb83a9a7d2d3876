package service

import (
	"context"

	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/store"
	"github.com/stretchr/testify/mock"
)

type product = domain.Product[int64]

// MockProductStore mocks store.ProductStore for *domain.Product[int64].
type MockProductStore struct {
	mock.Mock
}

var _ store.ProductStore[*product, int64] = (*MockProductStore)(nil)

func (m *MockProductStore) FindByID(ctx context.Context, id int64) (*product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, p *product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductStore) Update(ctx context.Context, p *product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductStore) Delete(ctx context.Context, p *product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductStore) Products() store.Query[*product] {
	return m.Called().Get(0).(store.Query[*product])
}

func (m *MockProductStore) Close() error {
	return m.Called().Error(0)
}
