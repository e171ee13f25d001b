package kafkat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/kafka/dlq"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/segmentio/kafka-go"
)

const (
	_defaultDLQHandleTimeout = 30 * time.Second
	_maxDLQBackoff           = 10 * time.Minute

	_replaySucceeded = "succeeded"
	_replayReparked  = "reparked"
	_replayExhausted = "exhausted"
)

// DLQProcessor replays parked fulfillment tasks from the dead letter topic
// with a growing delay. A task past maxRetries is left to the operator; its
// payment is still listed as unfulfilled.
type DLQProcessor struct {
	reader     MessageReader
	dlq        DLQ
	tasks      TaskHandler
	maxRetries int
	retryDelay time.Duration
	metrics    metric.DLQ
	log        logger.Logger
}

func NewDLQProcessor(
	reader MessageReader,
	dlq DLQ,
	tasks TaskHandler,
	maxRetries int,
	retryDelay time.Duration,
	metrics metric.DLQ,
	log logger.Logger,
) *DLQProcessor {
	return &DLQProcessor{
		reader:     reader,
		dlq:        dlq,
		tasks:      tasks,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		metrics:    metrics,
		log:        log,
	}
}

func (p *DLQProcessor) Start(ctx context.Context) error {
	defer func() {
		if err := p.reader.Close(); err != nil {
			p.log.Warnw("close dlq reader", "error", err)
		}
	}()

	for {
		msg, err := p.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.log.Infow("dlq processor shutting down")
				return nil
			}
			p.log.Errorw("read dlq message", "error", err)
			continue
		}

		if err = p.process(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			p.log.Errorw("process dlq message",
				"error", err,
				"offset", msg.Offset,
			)
		}
	}
}

func (p *DLQProcessor) process(ctx context.Context, msg kafka.Message) error {
	const op = "transport.kafka.DLQProcessor.process"

	parked, err := dlq.Decode(msg.Value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	retryCount := parked.Metadata.RetryCount
	if retryCount >= p.maxRetries {
		p.log.LogAttrs(ctx, logger.ErrorLevel, "giving up on parked fulfillment task",
			logger.OrderNumber(string(msg.Key)),
			logger.Int("retry_count", retryCount),
			logger.String("last_error", parked.Metadata.Error),
		)
		p.metrics.DLReplay(parked.Metadata.OriginalTopic, _replayExhausted)
		return nil
	}

	select {
	case <-time.After(p.backoff(retryCount)):
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}

	handleCtx, cancel := context.WithTimeout(ctx, _defaultDLQHandleTimeout)
	defer cancel()

	original := kafka.Message{
		Topic:     parked.Metadata.OriginalTopic,
		Partition: parked.Metadata.Partition,
		Offset:    parked.Metadata.Offset,
		Key:       msg.Key,
		Value:     []byte(parked.Payload),
	}
	if err = handleTask(handleCtx, original, p.tasks, p.log); err == nil {
		p.log.Infow("dlq message processed successfully",
			"offset", msg.Offset,
			"order_number", string(msg.Key),
		)
		p.metrics.DLReplay(parked.Metadata.OriginalTopic, _replaySucceeded)
		return nil
	}

	p.metrics.DLReplay(parked.Metadata.OriginalTopic, _replayReparked)
	if sendErr := p.dlq.Send(ctx, msg, err, retryCount+1); sendErr != nil {
		return fmt.Errorf("%s: park again: %w", op, errors.Join(err, sendErr))
	}
	return nil
}

func (p *DLQProcessor) backoff(retryCount int) time.Duration {
	d := p.retryDelay
	for range retryCount {
		d *= 2
		if d >= _maxDLQBackoff {
			return _maxDLQBackoff
		}
	}
	return d
}
