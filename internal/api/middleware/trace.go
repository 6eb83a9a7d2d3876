// Package middleware holds the HTTP middleware of the catalog API.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/catalog/internal/api/shared"
	"github.com/phrazzld/catalog/internal/platform/logger"
)

// TraceMiddleware adds a trace ID, and a logger carrying it, to the request
// context. It belongs after the OpenTelemetry handler so the ID matches the
// request span.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
