// Package metrics holds the Prometheus collectors for rendering, searching and
// serving results. Collectors live on their own registry so tests and
// embedding programs do not share global state.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resultview"

// Search outcome labels.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusAPI     = "api_error"
	StatusAuth    = "auth_error"
	StatusFailed  = "failed"
)

// Metrics is a set of collectors registered on one registry.
type Metrics struct {
	reg *prometheus.Registry

	HTTPRequestDuration *prometheus.HistogramVec
	RenderDuration      *prometheus.HistogramVec
	SearchTotal         *prometheus.CounterVec
	SearchDuration      *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, with Go runtime and
// process collectors included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
			[]string{"method", "route", "status"},
		),
		RenderDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_duration_seconds",
				Help:      "Result rendering duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
			},
			[]string{"mode", "engine", "output"},
		),
		SearchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Searches sent to the API by outcome",
			},
			[]string{"mode", "status"},
		),
		SearchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Search API round-trip duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"mode"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveRender records one render. output is "html" or "pdf".
func (m *Metrics) ObserveRender(mode, engine, output string, d time.Duration) {
	m.RenderDuration.WithLabelValues(mode, engine, output).Observe(d.Seconds())
}

// ObserveSearch records one search outcome and its duration.
func (m *Metrics) ObserveSearch(mode, status string, d time.Duration) {
	m.SearchTotal.WithLabelValues(mode, status).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(d.Seconds())
}
