package di

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

type scopeState struct {
	container *Container
	parent    *scopeState // nil for the root

	mu        sync.Mutex
	instances map[string]any
	closers   []io.Closer
	closed    bool
}

// Scope resolves services and owns the scoped instances it creates. A
// scope may be shared by goroutines, but scoped services themselves are
// typically not safe for concurrent use.
type Scope struct {
	state *scopeState
	// chain is the resolution path leading to this view of the scope,
	// used to detect cycles.
	chain []string
}

func newScope(c *Container, parent *Scope) *Scope {
	st := &scopeState{container: c, instances: make(map[string]any)}
	if parent != nil {
		st.parent = parent.state
	}
	return &Scope{state: st}
}

// Resolve returns the service registered under key.
func Resolve[T any](s *Scope, key Key[T]) (T, error) {
	var zero T
	v, err := s.resolve(key.name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrTypeMismatch, key, v)
	}
	return t, nil
}

// MustResolve is Resolve for startup code where a missing service is a
// programming error.
func MustResolve[T any](s *Scope, key Key[T]) T {
	v, err := Resolve(s, key)
	if err != nil {
		panic(err)
	}
	return v
}

func (s *Scope) resolve(name string) (any, error) {
	if slices.Contains(s.chain, name) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(s.chain, " -> "), name)
	}

	reg, ok := s.state.container.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}

	switch reg.lifetime {
	case Transient:
		return s.build(s.state, reg, name)
	case Scoped:
		if s.state.parent == nil {
			return nil, fmt.Errorf("%w: %s", ErrScopeRequired, name)
		}
		return s.cached(s.state, reg, name)
	default:
		root := s.state
		for root.parent != nil {
			root = root.parent
		}
		reg.mu.Lock()
		defer reg.mu.Unlock()
		return s.cached(root, reg, name)
	}
}

func (s *Scope) cached(st *scopeState, reg *registration, name string) (any, error) {
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil, fmt.Errorf("%w: resolving %s", ErrScopeClosed, name)
	}
	if v, ok := st.instances[name]; ok {
		st.mu.Unlock()
		return v, nil
	}
	st.mu.Unlock()

	v, err := s.build(st, reg, name)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return nil, fmt.Errorf("%w: resolving %s", ErrScopeClosed, name)
	}
	if existing, ok := st.instances[name]; ok {
		// Another goroutine sharing the scope won the race. The losing
		// instance is still closed with the scope.
		return existing, nil
	}
	st.instances[name] = v
	return v, nil
}

// build runs the factory in st, tracking the instance for disposal unless
// it is cached. Transient instances are tracked by the scope that built
// them.
func (s *Scope) build(st *scopeState, reg *registration, name string) (any, error) {
	child := &Scope{state: st, chain: append(slices.Clone(s.chain), name)}
	v, err := reg.build(child)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", name, err)
	}
	if c, ok := v.(io.Closer); ok {
		st.mu.Lock()
		defer st.mu.Unlock()
		if st.closed {
			_ = c.Close()
			return nil, fmt.Errorf("%w: resolving %s", ErrScopeClosed, name)
		}
		st.closers = append(st.closers, c)
	}
	return v, nil
}

// Close closes every io.Closer the scope created, most recent first, and
// joins their errors. Closing again has no effect.
func (s *Scope) Close() error {
	st := s.state
	st.mu.Lock()
	if st.closed {
		st.mu.Unlock()
		return nil
	}
	st.closed = true
	closers := st.closers
	st.closers = nil
	st.instances = nil
	st.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
