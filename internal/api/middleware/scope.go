package middleware

import (
	"net/http"

	"github.com/phrazzld/catalog/internal/di"
	"github.com/phrazzld/catalog/internal/platform/logger"
	"github.com/phrazzld/catalog/internal/redact"
)

// Scope opens a dependency scope per request and closes it, with every
// scoped service it built, once the handler returns.
func Scope(c *di.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := c.NewScope()
			defer func() {
				if err := scope.Close(); err != nil {
					logger.FromContext(r.Context()).Error("failed to close request scope",
						"error", redact.Error(err))
				}
			}()

			next.ServeHTTP(w, r.WithContext(di.WithScope(r.Context(), scope)))
		})
	}
}
