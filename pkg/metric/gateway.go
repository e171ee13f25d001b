package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Gateway = (*gatewayMetrics)(nil)

var _breakerStates = []string{"closed", "open", "half_open"}

type gatewayMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	breaker  *prometheus.GaugeVec
}

func newGatewayMetrics(registry *promRegistry) *gatewayMetrics {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "gateway_requests_total",
			Help:      "Total number of payment gateway calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: _namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Payment gateway call duration including retries",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"operation"},
	)

	retries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "gateway_retries_total",
			Help:      "Total number of retried payment gateway attempts",
		},
		[]string{"operation"},
	)

	breaker := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: _namespace,
			Name:      "gateway_circuit_breaker_state",
			Help:      "Current circuit breaker state (1 for the active state)",
		},
		[]string{"state"},
	)

	registry.registry.MustRegister(requests, duration, retries, breaker)

	m := &gatewayMetrics{
		requests: requests,
		duration: duration,
		retries:  retries,
		breaker:  breaker,
	}
	m.BreakerState("closed")
	return m
}

func (m *gatewayMetrics) Request(operation, outcome string) {
	m.requests.WithLabelValues(operation, outcome).Add(1)
}

func (m *gatewayMetrics) Duration(operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *gatewayMetrics) Retry(operation string) {
	m.retries.WithLabelValues(operation).Add(1)
}

func (m *gatewayMetrics) BreakerState(state string) {
	for _, s := range _breakerStates {
		value := 0.0
		if s == state {
			value = 1
		}
		m.breaker.WithLabelValues(s).Set(value)
	}
}
