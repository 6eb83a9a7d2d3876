package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/catalog/internal/api"
	"github.com/phrazzld/catalog/internal/catalog"
	"github.com/phrazzld/catalog/internal/config"
	"github.com/phrazzld/catalog/internal/di"
	"github.com/phrazzld/catalog/internal/platform/metrics"
	"github.com/phrazzld/catalog/internal/platform/postgres"
	"github.com/phrazzld/catalog/internal/service"
)

// application holds the long-lived dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry    *prometheus.Registry
	httpMetrics *metrics.HTTPMetrics

	container  *di.Container
	sessionKey di.Key[*postgres.Session]
	products   *catalog.Builder[*api.Product, uuid.UUID]
}

// newApplication registers metrics and wires the product catalog over db.
// It takes ownership of db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	registry := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, metrics.Namespace),
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	sessionMetrics := metrics.NewSessionMetrics()
	if err := sessionMetrics.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register session metrics: %w", err)
	}
	httpMetrics := metrics.NewHTTPMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	container := di.New()
	sessionKey := catalog.AddSessions(container, db,
		postgres.WithLogger(logger),
		postgres.WithMetrics(sessionMetrics))

	products := catalog.AddCatalog[*api.Product, uuid.UUID](container,
		catalog.WithName(cfg.Catalog.Name),
		catalog.WithServiceOptions(service.WithLogger(logger)))
	if err := catalog.AddSQLStores(products, sessionKey,
		postgres.ProductMapping[uuid.UUID](cfg.Catalog.Table),
		postgres.WithAutoSaveChanges(cfg.Catalog.AutoSaveChanges),
	); err != nil {
		return nil, fmt.Errorf("failed to register product store: %w", err)
	}

	logger.Info("catalog registered",
		slog.String("name", products.Name),
		slog.String("table", cfg.Catalog.Table),
		slog.Bool("auto_save_changes", cfg.Catalog.AutoSaveChanges))

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		registry:    registry,
		httpMetrics: httpMetrics,
		container:   container,
		sessionKey:  sessionKey,
		products:    products,
	}, nil
}

func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Container: app.container,
		Products:  app.products.Service,
		Logger:    app.logger,
		Commit:    app.commit,
		Metrics:   app.httpMetrics,
		Gatherer:  app.registry,
		DB:        app.db,
	})
}

// commit saves whatever the request's session still has pending. With
// auto-saving stores that is nothing.
func (app *application) commit(ctx context.Context, scope *di.Scope) error {
	session, err := di.Resolve(scope, app.sessionKey)
	if err != nil {
		return err
	}
	_, err = session.SaveChanges(ctx)
	return err
}

func (app *application) cleanup() {
	if err := app.container.Close(); err != nil {
		app.logger.Error("error closing container", "error", err)
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
