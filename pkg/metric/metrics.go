package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Transaction() Transaction
		Cache() Cache
		Kafka() Kafka
		DLQ() DLQ
		Gateway() Gateway
		Payment() Payment
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Transaction interface {
		ObserveDuration(operation string, duration time.Duration)
		IncrementRetries(operation string)
		IncrementFailures(operation string)
	}

	Cache interface {
		Hit(cacheName string)
		Miss(cacheName string)
		Eviction(cacheName string, reason string)
		Size(cacheName string, size int)
	}

	Kafka interface {
		MessageProcessed(topic string, partition int)
		MessageFailed(topic string, partition int, reason string)
		MessagePublished(topic string)
		ConsumerGroupLag(topic string, partition int, lag int64)
	}

	DLQ interface {
		DLSent(topic string, originalTopic string, retryCount int)
		DLError(topic string, reason string)
		DLRetryCount(originalTopic string, retryCount int)
		DLReplay(originalTopic string, outcome string)
	}

	// Gateway covers outbound calls to the payment gateway.
	Gateway interface {
		Request(operation, outcome string)
		Duration(operation string, duration time.Duration)
		Retry(operation string)
		BreakerState(state string)
	}

	// Payment covers inbound callbacks and license fulfillment.
	Payment interface {
		Callback(result string)
		SignatureRejected()
		Transition(from, to string)
		Fulfillment(operation, result string)
	}
)
