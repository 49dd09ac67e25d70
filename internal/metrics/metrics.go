package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Outbound provider calls, labelled by provider and outcome kind ("ok" on success).
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solar_provider_requests_total", Help: "Outbound provider requests by outcome"},
		[]string{"provider", "outcome"},
	)
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solar_provider_request_duration_seconds",
			Help:    "Outbound provider request latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
		[]string{"provider"},
	)
	// Engine operations (overview, pv_estimate, ...), labelled by outcome kind.
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "solar_operations_total", Help: "Engine operations by outcome"},
		[]string{"operation", "outcome"},
	)
	OperationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "solar_operation_duration_seconds", Help: "Engine operation latency"},
		[]string{"operation"},
	)
	// 1 when the last health probe of the provider succeeded, otherwise 0.
	ProviderUp = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "solar_provider_up", Help: "Result of the last provider health probe"},
		[]string{"provider"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ProviderRequests, ProviderLatency, Operations, OperationLatency, ProviderUp)
	})
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveProvider records one outbound provider call.
func ObserveProvider(provider, outcome string, d time.Duration) {
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
	ProviderLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveOperation records one engine operation.
func ObserveOperation(operation, outcome string, d time.Duration) {
	Operations.WithLabelValues(operation, outcome).Inc()
	OperationLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// SetProviderUp records the outcome of a health probe.
func SetProviderUp(provider string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	ProviderUp.WithLabelValues(provider).Set(v)
}
