package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for polystore
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Backend Metrics
	BackendOpsTotal     *prometheus.CounterVec
	BackendOpDuration   *prometheus.HistogramVec
	BackendErrorsTotal  *prometheus.CounterVec
	BackendUnconfigured *prometheus.CounterVec
	BackendUp           *prometheus.GaugeVec

	// Rate limiting
	RateLimitedTotal *prometheus.CounterVec
}

// NewMetricsRegistry registers every metric with reg. Passing a fresh
// prometheus.NewRegistry() keeps tests independent of the default registry.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polystore_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polystore_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "polystore_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Backend Metrics
		BackendOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polystore_backend_operations_total",
				Help: "Store operations dispatched by backend and operation",
			},
			[]string{"backend", "operation"},
		),
		BackendOpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "polystore_backend_operation_duration_seconds",
				Help:    "Store operation latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"backend", "operation"},
		),
		BackendErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polystore_backend_errors_total",
				Help: "Store operations that returned an error",
			},
			[]string{"backend", "operation"},
		),
		BackendUnconfigured: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polystore_backend_unconfigured_total",
				Help: "Operations routed to a backend that has no store",
			},
			[]string{"backend"},
		),
		BackendUp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "polystore_backend_up",
				Help: "1 when the last health ping of the backend succeeded",
			},
			[]string{"backend"},
		),

		RateLimitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polystore_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"limiter"},
		),
	}
}
