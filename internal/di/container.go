package di

import (
	"errors"
	"fmt"
	"sync"
)

// Lifetime controls how often a factory runs.
type Lifetime int

const (
	// Singleton instances are created once per container.
	Singleton Lifetime = iota
	// Scoped instances are created once per scope.
	Scoped
	// Transient instances are created on every resolution.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

var (
	// ErrNotRegistered is returned when resolving a key with no registration.
	ErrNotRegistered = errors.New("service not registered")
	// ErrAlreadyRegistered is returned by Register for a taken key.
	ErrAlreadyRegistered = errors.New("service already registered")
	// ErrCycle is returned when a factory depends on itself.
	ErrCycle = errors.New("dependency cycle")
	// ErrScopeClosed is returned when resolving from a closed scope.
	ErrScopeClosed = errors.New("scope closed")
	// ErrScopeRequired is returned when a scoped service is resolved from
	// the root scope.
	ErrScopeRequired = errors.New("scoped service resolved outside a scope")
	// ErrTypeMismatch is returned when a key name is registered with a
	// different type than the one resolved.
	ErrTypeMismatch = errors.New("service type mismatch")
)

// Key identifies a service of type T. Two keys are the same registration
// when their names are equal.
type Key[T any] struct {
	name string
}

// NewKey returns the key called name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the registration name.
func (k Key[T]) Name() string {
	return k.name
}

func (k Key[T]) String() string {
	return k.name
}

// Factory builds a service, resolving its own dependencies from s.
type Factory[T any] func(s *Scope) (T, error)

type registration struct {
	lifetime Lifetime
	build    func(s *Scope) (any, error)
	mu       sync.Mutex // serializes singleton construction
}

// Container holds registrations and the singleton instances. It is safe
// for concurrent use.
type Container struct {
	mu            sync.RWMutex
	registrations map[string]*registration
	root          *Scope
}

// New returns an empty container.
func New() *Container {
	c := &Container{registrations: make(map[string]*registration)}
	c.root = newScope(c, nil)
	return c
}

// Register adds a factory for key. It fails when key is already taken.
func Register[T any](c *Container, key Key[T], lifetime Lifetime, factory Factory[T]) error {
	if factory == nil {
		return fmt.Errorf("register %s: factory is nil", key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.registrations[key.name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	c.registrations[key.name] = &registration{
		lifetime: lifetime,
		build: func(s *Scope) (any, error) {
			return factory(s)
		},
	}
	return nil
}

// TryRegister adds a factory for key unless the key is already taken. It
// reports whether the registration was added.
func TryRegister[T any](c *Container, key Key[T], lifetime Lifetime, factory Factory[T]) bool {
	return Register(c, key, lifetime, factory) == nil
}

// RegisterInstance registers an existing value as a singleton. The
// container closes it on Close when it implements io.Closer.
func RegisterInstance[T any](c *Container, key Key[T], instance T) error {
	return Register(c, key, Singleton, func(*Scope) (T, error) {
		return instance, nil
	})
}

// Has reports whether a service is registered under name.
func (c *Container) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registrations[name]
	return ok
}

// Lifetime returns the lifetime registered under name.
func (c *Container) Lifetime(name string) (Lifetime, bool) {
	r, ok := c.lookup(name)
	if !ok {
		return 0, false
	}
	return r.lifetime, true
}

func (c *Container) lookup(name string) (*registration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.registrations[name]
	return r, ok
}

// Root returns the container's root scope. Singletons live there; scoped
// services cannot be resolved from it.
func (c *Container) Root() *Scope {
	return c.root
}

// NewScope opens a scope for one unit of work. Close it when done.
func (c *Container) NewScope() *Scope {
	return newScope(c, c.root)
}

// Close closes the singletons.
func (c *Container) Close() error {
	return c.root.Close()
}
