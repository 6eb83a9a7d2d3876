package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSessionMetrics()
	require.NoError(t, m.Register(reg))
	require.NoError(t, m.Register(reg), "second registration must be tolerated")

	m.ObserveCommit(ResultCommitted)
	m.ObserveCommit(ResultConflict)
	m.ObserveMutation("insert")
	m.ObserveMutation("insert")
	m.ObserveMutation("delete")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commits.WithLabelValues(ResultCommitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commits.WithLabelValues(ResultConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("insert")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("delete")))
}

func TestNilSessionMetrics(t *testing.T) {
	var m *SessionMetrics

	assert.NotPanics(t, func() {
		m.ObserveCommit(ResultFailed)
		m.ObserveMutation("update")
		_ = m.Register(prometheus.NewRegistry())
	})
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics()
	require.NoError(t, m.Register(reg))

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/products/{id}", "404"))
	assert.Equal(t, 2.0, got)
}
