package kafka

import (
	"context"
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type contextKey string

const kafkaMetadataKey contextKey = "kafka_metadata"

// NewKafkaReader consumes the fulfillment retry topic.
func NewKafkaReader(cfg config.Kafka, log logger.Logger) (*kafka.Reader, error) {
	return newReader(cfg.Brokers, cfg.Topic, cfg.GroupID, log)
}

// NewDLQReader consumes the dead letter topic under its own consumer group,
// so parked messages never compete with live ones for offsets.
func NewDLQReader(cfg config.DLQ, log logger.Logger) (*kafka.Reader, error) {
	return newReader(cfg.Brokers, cfg.Topic, cfg.GroupID, log)
}

func newReader(brokers []string, topic, groupID string, log logger.Logger) (*kafka.Reader, error) {
	if err := checkKafkaConnection(brokers, log); err != nil {
		return nil, err
	}

	meta := map[string]string{
		"topic":    topic,
		"group_id": groupID,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
		Logger: kafka.LoggerFunc(func(msg string, args ...any) {
			ctx := context.WithValue(context.Background(), kafkaMetadataKey, meta)
			log.LogAttrs(ctx, logger.DebugLevel, "kafka reader info",
				logger.String("topic", topic),
				logger.String("message", fmt.Sprintf(msg, args...)),
			)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			ctx := context.WithValue(context.Background(), kafkaMetadataKey, meta)
			log.LogAttrs(ctx, logger.ErrorLevel, "kafka reader error",
				logger.String("topic", topic),
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	})

	return reader, nil
}

// NewKafkaWriter publishes to the fulfillment retry topic. Messages are
// keyed by order number, so the hash balancer keeps one order on one
// partition.
func NewKafkaWriter(cfg config.Kafka, log logger.Logger) (*kafka.Writer, error) {
	if err := checkKafkaConnection(cfg.Brokers, log); err != nil {
		return nil, err
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.LogAttrs(context.Background(), logger.ErrorLevel, "kafka writer error",
				logger.String("topic", cfg.Topic),
				logger.String("error", fmt.Sprintf(msg, args...)),
			)
		}),
	}, nil
}

func checkKafkaConnection(brokers []string, log logger.Logger) error {
	const op = "kafka.checkKafkaConnection"

	dialer := &kafka.Dialer{}
	for _, broker := range brokers {
		conn, err := dialer.Dial("tcp", broker)
		if err != nil {
			return fmt.Errorf("%s: connect to %s: %w", op, broker, err)
		}

		if err = conn.Close(); err != nil {
			log.Warnw("failed to close connection",
				"operation", op,
				"broker", broker,
				"error", err)
		}
	}
	return nil
}
