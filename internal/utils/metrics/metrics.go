package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Capability metrics
	CapabilityLatency     *prometheus.HistogramVec
	CapabilityBreakerOpen prometheus.Gauge

	// Ledger metrics
	LedgerSpendsTotal *prometheus.CounterVec

	// Interaction recorder metrics
	InteractionsDroppedTotal prometheus.Counter
}

// New creates a Metrics instance registered on the default registry.
func New(namespace string) *Metrics {
	return NewWith(prometheus.DefaultRegisterer, namespace)
}

// NewWith creates a Metrics instance registered on the given registerer.
// Tests pass a fresh registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "scizor"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		// Operation metrics
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "operation",
				Name:      "requests_total",
				Help:      "Total number of dispatched operations",
			},
			[]string{"kind", "status"}, // status: ok or error class
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "operation",
				Name:      "duration_seconds",
				Help:      "Operation duration in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"kind"},
		),

		// Capability metrics
		CapabilityLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "capability",
				Name:      "latency_seconds",
				Help:      "External capability call latency in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint"},
		),
		CapabilityBreakerOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "capability",
				Name:      "breaker_open",
				Help:      "Circuit breaker state (1=open, 0=closed)",
			},
		),

		// Ledger metrics
		LedgerSpendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "spends_total",
				Help:      "Total number of ledger spend attempts",
			},
			[]string{"result"}, // ok, insufficient_balance, user_not_found, error
		),

		// Interaction recorder metrics
		InteractionsDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "interaction",
				Name:      "dropped_total",
				Help:      "Interaction records dropped due to a full buffer",
			},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordOperation records a dispatched operation outcome.
func (m *Metrics) RecordOperation(kind, status string, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(kind, status).Inc()
	m.OperationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordCapabilityCall records the latency of one capability invocation.
func (m *Metrics) RecordCapabilityCall(endpoint string, duration time.Duration) {
	m.CapabilityLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// SetBreakerOpen sets the capability circuit breaker state.
func (m *Metrics) SetBreakerOpen(open bool) {
	value := 0.0
	if open {
		value = 1.0
	}
	m.CapabilityBreakerOpen.Set(value)
}

// RecordSpend records a ledger spend attempt result.
func (m *Metrics) RecordSpend(result string) {
	m.LedgerSpendsTotal.WithLabelValues(result).Inc()
}

// RecordInteractionDrop records a dropped interaction record.
func (m *Metrics) RecordInteractionDrop() {
	m.InteractionsDroppedTotal.Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
