package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/catalog/internal/domain"
	"github.com/phrazzld/catalog/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/catalog/internal/service"

// ProductService is the facade over one product store. Like the store it
// owns, it belongs to a single unit of work and is not safe for concurrent
// use.
type ProductService[P domain.Entity[K], K comparable] struct {
	guard  store.Guard
	store  store.ProductStore[P, K]
	tracer trace.Tracer
	logger *slog.Logger
}

type serviceOptions struct {
	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a ProductService.
type Option func(*serviceOptions)

// WithTracer sets the tracer used for per-call spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *serviceOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithLogger sets the logger used when closing the store fails.
func WithLogger(l *slog.Logger) Option {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewProductService creates a service that owns s.
func NewProductService[P domain.Entity[K], K comparable](
	s store.ProductStore[P, K],
	opts ...Option,
) (*ProductService[P, K], error) {
	if s == nil {
		return nil, NewProductServiceError("new_service", "store is required", &store.ArgumentNilError{Param: "store"})
	}

	o := serviceOptions{tracer: otel.Tracer(tracerName), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &ProductService[P, K]{
		guard:  store.NewGuard("product service"),
		store:  s,
		tracer: o.tracer,
		logger: o.logger.With(slog.String("component", "product_service")),
	}, nil
}

// Store returns the owned store.
func (s *ProductService[P, K]) Store() store.ProductStore[P, K] {
	return s.store
}

// FindByID returns the product with the given key, or the zero P when
// there is none.
func (s *ProductService[P, K]) FindByID(ctx context.Context, id K) (P, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindByID",
		trace.WithAttributes(attribute.String("product.id", fmt.Sprint(id))))
	defer span.End()

	var zero P
	if err := s.guard.Check(ctx); err != nil {
		return zero, recordError(span, err)
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return zero, recordError(span, err)
	}
	span.SetAttributes(attribute.Bool("product.found", p != zero))
	return p, nil
}

// Create persists a new product.
func (s *ProductService[P, K]) Create(ctx context.Context, product P) error {
	return s.forward(ctx, "ProductService.Create", product, s.store.Create)
}

// Update persists changes to an existing product.
func (s *ProductService[P, K]) Update(ctx context.Context, product P) error {
	return s.forward(ctx, "ProductService.Update", product, s.store.Update)
}

// Delete removes a product.
func (s *ProductService[P, K]) Delete(ctx context.Context, product P) error {
	return s.forward(ctx, "ProductService.Delete", product, s.store.Delete)
}

func (s *ProductService[P, K]) forward(
	ctx context.Context,
	spanName string,
	product P,
	op func(context.Context, P) error,
) error {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	if err := s.guard.Check(ctx); err != nil {
		return recordError(span, err)
	}
	if err := op(ctx, product); err != nil {
		return recordError(span, err)
	}
	return nil
}

// Close closes the owned store once and disposes the service. The service
// is disposed even when closing the store fails.
func (s *ProductService[P, K]) Close() error {
	if s.guard.Disposed() {
		return nil
	}
	s.guard.Dispose()
	if err := s.store.Close(); err != nil {
		s.logger.Error("failed to close product store", slog.String("error", err.Error()))
		return fmt.Errorf("failed to close product store: %w", err)
	}
	return nil
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
