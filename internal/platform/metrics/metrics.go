package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every collector name.
const Namespace = "catalog"

// Commit results reported by ObserveCommit.
const (
	ResultCommitted = "committed"
	ResultConflict  = "conflict"
	ResultFailed    = "failed"
)

// SessionMetrics counts what sessions persist. A nil *SessionMetrics is
// valid and records nothing.
type SessionMetrics struct {
	Commits   *prometheus.CounterVec
	Mutations *prometheus.CounterVec
	Conflicts prometheus.Counter
}

// NewSessionMetrics builds unregistered session collectors.
func NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "session_commits_total",
			Help:      "SaveChanges calls that reached the database, by result.",
		}, []string{"result"}),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "session_mutations_total",
			Help:      "Mutations persisted by committed sessions, by operation.",
		}, []string{"operation"}),
		Conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "concurrency_conflicts_total",
			Help:      "Writes rejected because the row changed or vanished since it was read.",
		}),
	}
}

// Register adds the collectors to reg. Collectors that are already
// registered are tolerated so the call is safe to repeat.
func (m *SessionMetrics) Register(reg prometheus.Registerer) error {
	if m == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{m.Commits, m.Mutations, m.Conflicts} {
		if err := registerCollector(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveCommit records the outcome of one SaveChanges call.
func (m *SessionMetrics) ObserveCommit(result string) {
	if m == nil {
		return
	}
	m.Commits.WithLabelValues(result).Inc()
	if result == ResultConflict {
		m.Conflicts.Inc()
	}
}

// ObserveMutation records one persisted mutation.
func (m *SessionMetrics) ObserveMutation(operation string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(operation).Inc()
}

// HTTPMetrics instruments the API router.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics builds unregistered HTTP collectors.
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests processed, by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register adds the collectors to reg.
func (m *HTTPMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := registerCollector(reg, c); err != nil {
			return err
		}
	}
	return nil
}

// Middleware records request count and latency labelled with the chi
// route pattern, which keeps label cardinality bounded.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if pattern := rc.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}
