package dlq

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultMaxAttempts    = 10
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 5 * time.Second

	_backoffMultiplier = 2
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type (
	Metadata struct {
		OriginalTopic string    `json:"original_topic"`
		Partition     int       `json:"partition"`
		Offset        int64     `json:"offset"`
		RetryCount    int       `json:"retry_count"`
		Error         string    `json:"error"`
		Timestamp     time.Time `json:"timestamp"`
	}

	// Message is the envelope written to the dead letter topic. Payload is
	// the original message value, untouched.
	Message struct {
		Metadata Metadata `json:"metadata"`
		Payload  string   `json:"payload"`
	}
)

type DLQ struct {
	writer  Writer
	topic   string
	log     logger.Logger
	metrics metric.DLQ

	MaxAttempts    int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	maxErrorLength int
}

func NewDLQ(cfg config.DLQ, log logger.Logger, metrics metric.DLQ, opts ...Option) (*DLQ, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		Async:        false,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.DebugLevel, "dlq writer info",
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "dlq writer error",
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}

	return New(writer, cfg.Topic, log, metrics, opts...)
}

// New builds a DLQ over any writer bound to topic.
func New(
	writer Writer,
	topic string,
	log logger.Logger,
	metrics metric.DLQ,
	opts ...Option,
) (*DLQ, error) {
	dlq := &DLQ{
		writer:  writer,
		topic:   topic,
		log:     log,
		metrics: metrics,

		MaxAttempts:    _defaultMaxAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
		maxErrorLength: _defaultMaxErrorLength,
	}

	for _, opt := range opts {
		opt(dlq)
	}

	if err := dlq.validate(); err != nil {
		return nil, fmt.Errorf("kafka.dlq.NewDLQ: validation: %w", err)
	}

	return dlq, nil
}

func (d *DLQ) Close() error {
	if err := d.writer.Close(); err != nil {
		return fmt.Errorf("kafka.dlq.Close: %w", err)
	}
	return nil
}

// Send parks originalMsg on the dead letter topic with the error that
// exhausted its retries. The original key is kept so a later replay lands
// on the same partition.
func (d *DLQ) Send(
	ctx context.Context,
	originalMsg kafka.Message,
	cause error,
	retryCount int,
) error {
	const op = "kafka.dlq.Send"

	envelope := Message{
		Metadata: Metadata{
			OriginalTopic: originalMsg.Topic,
			Partition:     originalMsg.Partition,
			Offset:        originalMsg.Offset,
			RetryCount:    retryCount,
			Error:         d.errorText(cause),
			Timestamp:     time.Now().UTC(),
		},
		Payload: string(originalMsg.Value),
	}
	// A replayed dead letter already carries its origin.
	if prev, err := Decode(originalMsg.Value); err == nil && prev.Metadata.OriginalTopic != "" {
		envelope.Metadata.OriginalTopic = prev.Metadata.OriginalTopic
		envelope.Payload = prev.Payload
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("%s: marshal envelope: %w", op, err)
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   originalMsg.Key,
		Value: value,
	})
	if err != nil {
		d.log.Errorw("failed to send message to dlq",
			"op", op,
			"error", err,
			"offset", originalMsg.Offset,
		)

		if d.metrics != nil {
			d.metrics.DLError(d.topic, "write_failed")
		}

		return fmt.Errorf("%s: send message: %w", op, err)
	}

	if d.metrics != nil {
		d.metrics.DLSent(d.topic, envelope.Metadata.OriginalTopic, retryCount)
	}

	d.log.Infow("message sent to dlq",
		"op", op,
		"topic", d.topic,
		"key", string(originalMsg.Key),
		"offset", originalMsg.Offset,
		"retry_count", retryCount,
	)

	return nil
}

func Decode(value []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(value, &msg); err != nil {
		return nil, fmt.Errorf("kafka.dlq.Decode: %w", err)
	}
	return &msg, nil
}

// ProcessWithRetry runs handler until it succeeds or MaxAttempts is used
// up, backing off with jitter between attempts. It returns the last
// handler error; parking the message is left to the caller.
func ProcessWithRetry(
	ctx context.Context,
	msg kafka.Message,
	handler func(context.Context, kafka.Message) error,
	dlq *DLQ,
	log logger.Logger,
) error {
	const op = "kafka.dlq.ProcessWithRetry"

	var err error
	currentBackoff := dlq.baseRetryDelay
	for attempt := 1; attempt <= dlq.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: context: %w", op, ctxErr)
		}

		if err = handler(ctx, msg); err == nil {
			return nil
		}

		log.LogAttrs(ctx, logger.WarnLevel, "message processing failed",
			logger.String("operation", op),
			logger.Int64("offset", msg.Offset),
			logger.Int("attempt", attempt),
			logger.Err(err),
		)
		if attempt == dlq.MaxAttempts {
			break
		}

		wait := time.Duration(rand.Int64N(int64(currentBackoff*_backoffMultiplier))) + 1
		if wait > dlq.maxRetryDelay {
			wait = dlq.maxRetryDelay
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("%s: context done: %w", op, ctx.Err())
		}

		currentBackoff = min(currentBackoff*_backoffMultiplier, dlq.maxRetryDelay)
	}

	return fmt.Errorf("%s: %d attempts: %w", op, dlq.MaxAttempts, err)
}
