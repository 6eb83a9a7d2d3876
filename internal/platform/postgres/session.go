package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/catalog/internal/platform/logger"
	"github.com/phrazzld/catalog/internal/platform/metrics"
	"github.com/phrazzld/catalog/internal/store"
)

// Operation names a kind of staged mutation.
type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Mutation is one pending write.
//
// Exec runs inside the commit transaction and, on success, writes its
// effects (generated key, new version) back to the entity. Revert undoes
// those effects when the transaction does not commit; it may be nil.
type Mutation struct {
	Operation Operation
	Entity    any
	Exec      func(ctx context.Context, q store.DBTX) error
	Revert    func()
}

// Context is the database context a ProductStore works against. Reads go
// through Querier; writes are staged and applied by SaveChanges.
type Context interface {
	Querier() store.DBTX
	Stage(m Mutation)
	SaveChanges(ctx context.Context) (int, error)
}

// Session is the default Context: a unit of work over a connection pool.
// It is not safe for concurrent use.
type Session struct {
	db      *sql.DB
	pending []Mutation
	logger  *slog.Logger
	metrics *metrics.SessionMetrics
}

var _ Context = (*Session)(nil)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics makes the session report commits and mutations to m.
func WithMetrics(m *metrics.SessionMetrics) SessionOption {
	return func(s *Session) { s.metrics = m }
}

// NewSession returns an empty unit of work over db. The session does not
// own db.
func NewSession(db *sql.DB, opts ...SessionOption) *Session {
	s := &Session{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "session"))
	return s
}

// Querier returns the pool reads run against. Staged mutations are not
// visible through it.
func (s *Session) Querier() store.DBTX {
	return s.db
}

// Stage queues m for the next SaveChanges.
func (s *Session) Stage(m Mutation) {
	s.pending = append(s.pending, m)
}

// Pending returns the number of staged mutations.
func (s *Session) Pending() int {
	return len(s.pending)
}

// Discard drops every staged mutation.
func (s *Session) Discard() {
	s.pending = nil
}

// SaveChanges applies the staged mutations in one transaction and returns
// how many were written. With nothing staged it returns without touching
// the database. On failure nothing is written, the entities are restored
// and the mutations stay staged.
func (s *Session) SaveChanges(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(s.pending) == 0 {
		return 0, nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	pending := s.pending
	applied := make([]Mutation, 0, len(pending))

	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, m := range pending {
			if err := m.Exec(ctx, tx); err != nil {
				return err
			}
			applied = append(applied, m)
		}
		return nil
	})
	if err != nil {
		for i := len(applied) - 1; i >= 0; i-- {
			if applied[i].Revert != nil {
				applied[i].Revert()
			}
		}
		if errors.Is(err, store.ErrTransactionFailed) {
			err = MapError(err)
		}
		s.observeFailure(log, err, len(pending))
		return 0, err
	}

	for _, m := range pending {
		s.metrics.ObserveMutation(string(m.Operation))
	}
	s.metrics.ObserveCommit(metrics.ResultCommitted)
	s.pending = nil

	log.Debug("saved changes", slog.Int("mutations", len(pending)))
	return len(pending), nil
}

func (s *Session) observeFailure(log *slog.Logger, err error, pending int) {
	if store.IsConflictError(err) {
		s.metrics.ObserveCommit(metrics.ResultConflict)
		log.Warn("save changes rejected by concurrency check",
			slog.Int("pending", pending),
			slog.String("error", err.Error()))
		return
	}
	s.metrics.ObserveCommit(metrics.ResultFailed)
	log.Error("failed to save changes",
		slog.Int("pending", pending),
		slog.String("error", err.Error()))
}

// Close discards pending mutations. The pool stays open.
func (s *Session) Close() error {
	s.Discard()
	return nil
}
