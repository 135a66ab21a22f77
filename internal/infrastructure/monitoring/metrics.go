package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded for upstream style-data calls
const (
	FetchSuccess = "success"
	FetchEmpty   = "empty"
	FetchError   = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Upstream style-data metrics
	FetchTotal    *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	BreakerState  prometheus.Gauge

	// Stylesheet metrics
	TokensRendered prometheus.Histogram

	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylesheet_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stylesheet_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stylesheet_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{2, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stylesheet_upstream_fetch_total",
				Help: "Style-data fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylesheet_upstream_fetch_duration_seconds",
				Help:    "Style-data fetch duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		BreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stylesheet_upstream_breaker_state",
				Help: "Upstream circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),

		TokensRendered: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stylesheet_tokens_rendered",
				Help:    "Color tokens rendered per stylesheet",
				Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000},
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "stylesheet_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordFetch records one upstream style-data call
func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// RecordRender records the number of tokens in a rendered stylesheet
func (m *Metrics) RecordRender(tokens int) {
	m.TokensRendered.Observe(float64(tokens))
}

// SetBreakerState publishes the upstream breaker state
func (m *Metrics) SetBreakerState(state int) {
	m.BreakerState.Set(float64(state))
}
