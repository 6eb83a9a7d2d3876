package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/catalog/internal/api/shared"
	"github.com/phrazzld/catalog/internal/di"
	"github.com/phrazzld/catalog/internal/platform/logger"
	"github.com/phrazzld/catalog/internal/service"
)

// ServiceResolver returns the product service of a request scope.
type ServiceResolver func(*di.Scope) (*service.ProductService[*Product, uuid.UUID], error)

// CommitFunc saves the pending changes of a request scope. It is called
// after every successful mutation; with auto-saving stores it has nothing
// left to do.
type CommitFunc func(ctx context.Context, scope *di.Scope) error

// ProductHandler serves the product CRUD endpoints. Each request resolves
// its service from the request scope installed by middleware.Scope, so
// the service, store and database session live for one request.
type ProductHandler struct {
	resolve ServiceResolver
	commit  CommitFunc
	logger  *slog.Logger
}

// NewProductHandler creates a ProductHandler. commit may be nil.
func NewProductHandler(resolve ServiceResolver, commit CommitFunc, logger *slog.Logger) *ProductHandler {
	if resolve == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service resolver cannot be nil for ProductHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductHandler{
		resolve: resolve,
		commit:  commit,
		logger:  logger.With(slog.String("component", "product_handler")),
	}
}

func (h *ProductHandler) service(w http.ResponseWriter, r *http.Request) (*service.ProductService[*Product, uuid.UUID], bool) {
	scope, ok := di.ScopeFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, fmt.Errorf("%w: no request scope", di.ErrScopeRequired), "")
		return nil, false
	}
	svc, err := h.resolve(scope)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to resolve product service")
		return nil, false
	}
	return svc, true
}

func (h *ProductHandler) save(r *http.Request) error {
	if h.commit == nil {
		return nil
	}
	scope, _ := di.ScopeFromContext(r.Context())
	return h.commit(r.Context(), scope)
}

// GetProduct handles GET /api/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	product, err := svc.FindByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get product")
		return
	}
	if product == nil {
		log.Debug("product not found", slog.String("product_id", id.String()))
		shared.RespondWithError(w, r, http.StatusNotFound, "Product not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(product))
}

// CreateProduct handles POST /api/products. The key is assigned here so
// the response can carry it without a round trip.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateProductRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrInvalidRequest, err), "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	product := &Product{ID: uuid.New(), Name: req.Name}
	if err := svc.Create(r.Context(), product); err != nil {
		HandleAPIError(w, r, err, "Failed to create product")
		return
	}
	if err := h.save(r); err != nil {
		HandleAPIError(w, r, err, "Failed to create product")
		return
	}

	log.Info("product created",
		slog.String("product_id", product.ID.String()),
		slog.Int64("version", product.Version))
	w.Header().Set("Location", "/api/products/"+product.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, productToResponse(product))
}

// UpdateProduct handles PUT /api/products/{id}. The request version must
// match the stored one; otherwise the reply is 409 Conflict.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateProductRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", ErrInvalidRequest, err), "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	product := &Product{ID: id, Name: req.Name, Version: req.Version}
	if err := svc.Update(r.Context(), product); err != nil {
		HandleAPIError(w, r, err, "Failed to update product")
		return
	}
	if err := h.save(r); err != nil {
		HandleAPIError(w, r, err, "Failed to update product")
		return
	}

	log.Info("product updated",
		slog.String("product_id", id.String()),
		slog.Int64("version", product.Version))
	shared.RespondWithJSON(w, r, http.StatusOK, productToResponse(product))
}

// DeleteProduct handles DELETE /api/products/{id}?version=N.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	version, err := getDeleteVersion(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	svc, ok := h.service(w, r)
	if !ok {
		return
	}

	if err := svc.Delete(r.Context(), &Product{ID: id, Version: version}); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product")
		return
	}
	if err := h.save(r); err != nil {
		HandleAPIError(w, r, err, "Failed to delete product")
		return
	}

	log.Info("product deleted", slog.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
