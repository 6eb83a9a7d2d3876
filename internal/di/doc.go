// Package di is a small dependency-injection container with typed keys.
//
// Services are registered once at startup under a Key[T] with a lifetime:
// Singleton instances are shared by the whole container, Scoped instances
// are created once per Scope (typically one HTTP request), and Transient
// factories run on every resolution. Registration and resolution use Go
// generics only; there is no reflection.
package di
