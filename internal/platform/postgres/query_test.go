package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryIsLazy(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	q := s.Products().Where("name", "Widget").Filter(func(*product) bool { return true })
	_ = q.All(context.Background())

	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL before iteration")
}

func TestQueryWherePushedDown(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	mock.ExpectQuery(selectAllSQL+` WHERE "name" = $1 AND "version" = $2`).
		WithArgs("Widget", int64(2)).
		WillReturnRows(productRows().AddRow(int64(1), "Widget", int64(2)).AddRow(int64(7), "Widget", int64(2)))

	var ids []int64
	for p, err := range s.Products().Where("name", "Widget").Where("version", int64(2)).All(context.Background()) {
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	assert.Equal(t, []int64{1, 7}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFilterInProcess(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	mock.ExpectQuery(selectAllSQL).WillReturnRows(productRows().
		AddRow(int64(1), "Widget", int64(1)).
		AddRow(int64(2), "Gadget", int64(1)).
		AddRow(int64(3), "Widget Pro", int64(1)))

	var names []string
	q := s.Products().Filter(func(p *product) bool { return strings.HasPrefix(p.Name, "Widget") })
	for p, err := range q.All(context.Background()) {
		require.NoError(t, err)
		names = append(names, p.Name)
	}

	assert.Equal(t, []string{"Widget", "Widget Pro"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryCompositionDoesNotMutateReceiver(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	base := s.Products()
	_ = base.Where("name", "Widget")

	mock.ExpectQuery(selectAllSQL).WillReturnRows(productRows())

	for _, err := range base.All(context.Background()) {
		require.NoError(t, err)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryEarlyBreakClosesRows(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	mock.ExpectQuery(selectAllSQL).WillReturnRows(productRows().
		AddRow(int64(1), "a", int64(1)).
		AddRow(int64(2), "b", int64(1))).
		RowsWillBeClosed()

	seen := 0
	for _, err := range s.Products().All(context.Background()) {
		require.NoError(t, err)
		seen++
		break
	}

	assert.Equal(t, 1, seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryUnknownColumn(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	p, err := s.Products().Where("price; DROP TABLE products", 1).Single(context.Background())

	assert.ErrorIs(t, err, store.ErrInvalidQuery)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryNilFilter(t *testing.T) {
	db, _ := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	_, err := s.Products().Filter(nil).Single(context.Background())

	assert.ErrorIs(t, err, store.ErrNilArgument)
}

func TestQueryDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))
	dbErr := errors.New("connection lost")

	mock.ExpectQuery(selectAllSQL).WillReturnError(dbErr)

	errs := 0
	for _, err := range s.Products().All(context.Background()) {
		assert.ErrorIs(t, err, dbErr)
		errs++
	}

	assert.Equal(t, 1, errs, "a failure is yielded once")
}

func TestQuerySingleWithFilterReadsAllRows(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))

	mock.ExpectQuery(selectAllSQL).WillReturnRows(productRows().
		AddRow(int64(1), "a", int64(1)).
		AddRow(int64(2), "b", int64(1)).
		AddRow(int64(3), "c", int64(1)))

	p, err := s.Products().Filter(func(p *product) bool { return p.Name == "c" }).Single(context.Background())

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(3), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRowError(t *testing.T) {
	db, mock := newMockDB(t)
	s := newStore(t, postgres.NewSession(db))
	rowErr := errors.New("network blip")

	mock.ExpectQuery(selectAllSQL).WillReturnRows(productRows().
		AddRow(int64(1), "a", int64(1)).
		AddRow(int64(2), "b", int64(1)).
		RowError(1, rowErr))

	var got []int64
	var lastErr error
	for p, err := range s.Products().All(context.Background()) {
		if err != nil {
			lastErr = err
			continue
		}
		got = append(got, p.ID)
	}

	assert.Equal(t, []int64{1}, got)
	assert.ErrorIs(t, lastErr, rowErr)
}
