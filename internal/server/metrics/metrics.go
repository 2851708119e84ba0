// Package metrics owns the Prometheus collectors of the server. Collectors
// live on a dedicated registry rather than the global default one.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome values for auth attempt metrics.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeRejected    = "rejected"
	OutcomeConflict    = "conflict"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// Metrics bundles the registry and the server collectors.
type Metrics struct {
	registry     *prometheus.Registry
	authAttempts *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seniko_auth_attempts_total",
				Help: "Total number of register and login attempts",
			},
			[]string{"operation", "outcome"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seniko_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.authAttempts,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordAuthAttempt increments the attempt counter.
// Parameters:
//   - operation: "register" or "login"
//   - outcome: one of the Outcome* constants
func (m *Metrics) RecordAuthAttempt(operation, outcome string) {
	m.authAttempts.WithLabelValues(operation, outcome).Inc()
}

// ObserveHTTP records the duration of one HTTP request. route is the
// matched route template, not the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
