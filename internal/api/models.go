package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/catalog/internal/domain"
)

// Product is the product type served over HTTP.
type Product = domain.Product[uuid.UUID]

// CreateProductRequest is the body of POST /api/products.
type CreateProductRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// UpdateProductRequest is the body of PUT /api/products/{id}. Version is
// the version the client last read.
type UpdateProductRequest struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Version int64  `json:"version" validate:"gte=1"`
}

// DeleteProductRequest is the optional body of DELETE /api/products/{id}.
type DeleteProductRequest struct {
	Version int64 `json:"version" validate:"gte=1"`
}

// ProductResponse is the representation of a product in responses.
type ProductResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version int64  `json:"version"`
}

func productToResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:      p.ID.String(),
		Name:    p.Name,
		Version: p.Version,
	}
}
