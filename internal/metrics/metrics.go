// Package metrics defines the Prometheus metrics for the campus-connect
// server. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics live on a per-server registry, not the global default one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campus"

// Counter reports collection sizes for the gauges. The repository satisfies
// it.
type Counter interface {
	Counts() (users, posts int)
}

// Metrics holds every collector and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	// HTTPRequestsTotal counts finished requests.
	// Labels:
	//   - method: HTTP method
	//   - route: chi route pattern (e.g. "/api/posts/{id}/like")
	//   - status: response status code
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration measures handler latency.
	// Labels: method, route
	HTTPRequestDuration *prometheus.HistogramVec

	// StoreWritesTotal counts write-through saves.
	// Labels:
	//   - key: store document key ("users", "posts", "currentUser")
	//   - result: "ok" or "error"
	StoreWritesTotal *prometheus.CounterVec

	// StoreWriteDuration measures one full-document save.
	// Label: key
	StoreWriteDuration *prometheus.HistogramVec
}

// New creates and registers every metric.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP request handling.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		StoreWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_writes_total",
				Help:      "Total number of write-through saves, by key and result.",
			},
			[]string{"key", "result"},
		),
		StoreWriteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_write_duration_seconds",
				Help:      "Duration of one full-document save.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"key"},
		),
	}
	reg.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.StoreWritesTotal, m.StoreWriteDuration)

	return m
}

// TrackCounts registers two gauges that report the number of users and
// posts at scrape time. Call it once.
func (m *Metrics) TrackCounts(counts Counter) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users",
			Help:      "Number of registered users.",
		}, func() float64 {
			u, _ := counts.Counts()
			return float64(u)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Number of posts.",
		}, func() float64 {
			_, p := counts.Counts()
			return float64(p)
		}),
	)
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSave records one write-through save.
func (m *Metrics) ObserveSave(key string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreWritesTotal.WithLabelValues(key, result).Inc()
	m.StoreWriteDuration.WithLabelValues(key).Observe(d.Seconds())
}

// Middleware counts and times every request. The route label is the chi
// pattern, not the raw path, so ids do not explode label cardinality.
// Unmatched requests are labelled "unmatched".
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the real writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
