// Package metrics provides Prometheus instrumentation for the movie browser.
//
// Collectors are registry-scoped so tests can pass prometheus.NewRegistry()
// without clashing with the default registerer:
//
//	reelbrowser_http_requests_total            counter: requests by method/path/status
//	reelbrowser_http_request_duration_seconds  histogram: latency by method/path
//	reelbrowser_upstream_requests_total        counter: TMDb calls by resource/outcome
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server instance
type Metrics struct {
	registry         *prometheus.Registry
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelbrowser_http_requests_total",
			Help: "Total HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reelbrowser_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelbrowser_upstream_requests_total",
			Help: "TMDb requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.UpstreamRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the scrape handler for GET /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream counts one TMDb call. Safe on a nil receiver.
func (m *Metrics) ObserveUpstream(resource, outcome string) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(resource, outcome).Inc()
}

// Middleware wraps an HTTP handler to record request counts and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := routeLabel(r.URL.Path)
		m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeLabel collapses per-movie paths so label cardinality stays bounded.
// /movie/550 -> /movie/:id
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/movie/"):
		return "/movie/:id"
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	}
	if len(path) > 64 {
		return path[:64] + "..."
	}
	return path
}
