package kafkat

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/kafka/dlq"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

type (
	MessageReader interface {
		ReadMessage(ctx context.Context) (kafka.Message, error)
		Close() error
	}

	DLQ interface {
		Send(ctx context.Context, msg kafka.Message, err error, retryCount int) error
	}

	// TaskHandler runs the work a fulfillment task asks for.
	TaskHandler interface {
		Retry(ctx context.Context, orderNumber string) error
		ReplayCallback(ctx context.Context, orderNumber string, report entity.GatewayReport) error
	}
)

// FulfillmentConsumer drains the retry topic. Transient failures are
// retried in place and then parked on the DLQ; permanent ones stay failed
// on the payment for an operator.
type FulfillmentConsumer struct {
	reader MessageReader
	dlq    *dlq.DLQ
	tasks  TaskHandler
	metric metric.Kafka
	log    logger.Logger
}

func NewFulfillmentConsumer(
	reader MessageReader,
	dlq *dlq.DLQ,
	tasks TaskHandler,
	metric metric.Kafka,
	log logger.Logger,
) *FulfillmentConsumer {
	return &FulfillmentConsumer{
		reader: reader,
		dlq:    dlq,
		tasks:  tasks,
		metric: metric,
		log:    log,
	}
}

func (c *FulfillmentConsumer) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return c.run(ctx)
	})

	eg.Go(func() error {
		<-ctx.Done()
		c.log.Infow("shutting down fulfillment consumer")
		return c.reader.Close()
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("transport.kafka.fulfillment_consumer.Start: %w", err)
	}
	return nil
}

func (c *FulfillmentConsumer) run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Errorw("kafka read failed",
				"error", err,
			)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *FulfillmentConsumer) processMessage(ctx context.Context, msg kafka.Message) {
	c.log.Debugw("processing fulfillment task",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	err := dlq.ProcessWithRetry(ctx, msg, c.handleMessage, c.dlq, c.log)
	if err == nil {
		c.metric.MessageProcessed(msg.Topic, msg.Partition)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}

	c.metric.MessageFailed(msg.Topic, msg.Partition, "retry_limit_exceeded")

	if dlqErr := c.dlq.Send(ctx, msg, err, c.dlq.MaxAttempts); dlqErr != nil {
		c.log.Errorw("critical: failed to send to DLQ after retries",
			"offset", msg.Offset,
			"order_number", string(msg.Key),
			"original_error", err,
			"dlq_error", dlqErr,
		)
		c.log.Errorw("dlq fallback",
			"payload_hash", fmt.Sprintf("%x", sha256.Sum256(msg.Value)),
			"offset", msg.Offset,
		)
	}
}

// handleMessage returns nil for anything another attempt cannot fix, so
// only transient failures are retried.
func (c *FulfillmentConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	return handleTask(ctx, msg, c.tasks, c.log)
}

func handleTask(ctx context.Context, msg kafka.Message, tasks TaskHandler, log logger.Logger) error {
	const op = "transport.kafka.handleTask"

	task, err := decodeTask(msg.Value)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "dropping undecodable fulfillment task",
			logger.String("op", op),
			logger.Int64("offset", msg.Offset),
			logger.Err(err),
		)
		return nil
	}

	ctx = logger.WithOrderNumber(ctx, task.OrderNumber)
	if task.Callback != nil {
		err = tasks.ReplayCallback(ctx, task.OrderNumber, task.Callback.GatewayReport())
	} else {
		err = tasks.Retry(ctx, task.OrderNumber)
	}
	switch {
	case err == nil:
		log.LogAttrs(ctx, logger.InfoLevel, "fulfillment task succeeded",
			logger.String("reason", task.Reason),
			logger.Int64("offset", msg.Offset),
		)
		return nil
	case service.IsPermanentFulfillmentError(err):
		log.LogAttrs(ctx, logger.ErrorLevel, "fulfillment needs manual reconciliation",
			logger.Err(err),
		)
		return nil
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
