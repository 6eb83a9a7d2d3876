// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields for each interface method, falling back to
// default return values when a field is nil:
//
//	st := &mocks.MockProductStore[*domain.Product[int64], int64]{
//	    FindByIDFn: func(ctx context.Context, id int64) (*domain.Product[int64], error) {
//	        return &domain.Product[int64]{ID: id, Name: "Widget"}, nil
//	    },
//	}
package mocks
