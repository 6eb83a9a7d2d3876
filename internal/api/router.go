package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/phrazzld/catalog/internal/api/middleware"
	"github.com/phrazzld/catalog/internal/api/shared"
	"github.com/phrazzld/catalog/internal/di"
	"github.com/phrazzld/catalog/internal/platform/metrics"
)

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterConfig holds the dependencies of NewRouter. Container, Products
// and Logger are required.
type RouterConfig struct {
	Container *di.Container
	Products  ServiceResolver
	Logger    *slog.Logger
	// Commit saves each mutating request's unit of work.
	Commit CommitFunc
	// Metrics instruments every route when set.
	Metrics *metrics.HTTPMetrics
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	// DB is pinged by /health when set.
	DB Pinger
}

// NewRouter builds the HTTP handler of the catalog API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.TraceMiddleware(cfg.Logger))

	products := NewProductHandler(cfg.Products, cfg.Commit, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Scope(cfg.Container))

		r.Post("/products", products.CreateProduct)
		r.Get("/products/{id}", products.GetProduct)
		r.Put("/products/{id}", products.UpdateProduct)
		r.Delete("/products/{id}", products.DeleteProduct)
	})

	r.Get("/health", healthHandler(cfg.DB))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return otelhttp.NewHandler(r, "catalog.http",
		otelhttp.WithFilter(func(req *http.Request) bool {
			return req.URL.Path != "/health" && req.URL.Path != "/metrics"
		}),
	)
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
