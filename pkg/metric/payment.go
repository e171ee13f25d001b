package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Payment = (*paymentMetrics)(nil)

type paymentMetrics struct {
	callbacks    *prometheus.CounterVec
	forgeries    prometheus.Counter
	transitions  *prometheus.CounterVec
	fulfillments *prometheus.CounterVec
}

func newPaymentMetrics(registry *promRegistry) *paymentMetrics {
	callbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "payment_callbacks_total",
			Help:      "Total number of gateway callbacks by handling result",
		},
		[]string{"result"},
	)

	forgeries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "payment_callback_signature_rejected_total",
			Help:      "Total number of callbacks rejected for an invalid signature",
		},
	)

	transitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "payment_status_transitions_total",
			Help:      "Total number of payment status transitions",
		},
		[]string{"from", "to"},
	)

	fulfillments := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: _namespace,
			Name:      "payment_fulfillments_total",
			Help:      "Total number of license fulfillment attempts by operation and result",
		},
		[]string{"operation", "result"},
	)

	registry.registry.MustRegister(callbacks, forgeries, transitions, fulfillments)

	return &paymentMetrics{
		callbacks:    callbacks,
		forgeries:    forgeries,
		transitions:  transitions,
		fulfillments: fulfillments,
	}
}

func (m *paymentMetrics) Callback(result string) {
	m.callbacks.WithLabelValues(result).Add(1)
}

func (m *paymentMetrics) SignatureRejected() {
	m.forgeries.Add(1)
}

func (m *paymentMetrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Add(1)
}

func (m *paymentMetrics) Fulfillment(operation, result string) {
	m.fulfillments.WithLabelValues(operation, result).Add(1)
}
