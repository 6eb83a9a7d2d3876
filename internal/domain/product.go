package domain

// Product is a catalog entry identified by a key of type K.
//
// Version is the optimistic concurrency token. It is zero until the
// product is first persisted and is advanced by the store on every
// committed update.
type Product[K comparable] struct {
	ID      K      `json:"id"`
	Name    string `json:"name"`
	Version int64  `json:"version"`
}

// NewProduct creates an unsaved product with the given name.
func NewProduct[K comparable](name string) *Product[K] {
	return &Product[K]{Name: name}
}

// Base returns the product itself. Types embedding Product inherit it,
// which is how stores reach the key and version of any concrete type.
func (p *Product[K]) Base() *Product[K] {
	return p
}

// Entity is the constraint for concrete product types: a pointer type
// (comparable, so nil can be detected) that exposes its embedded Product.
type Entity[K comparable] interface {
	comparable
	Base() *Product[K]
}

// IsZeroKey reports whether key is the zero value of its type, i.e. the
// key has not been assigned yet.
func IsZeroKey[K comparable](key K) bool {
	var zero K
	return key == zero
}
