package kafkat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// FulfillmentTask asks the retry consumer to fulfill a paid order again.
// A task carrying a Callback replays that verified callback first.
type FulfillmentTask struct {
	OrderNumber string          `json:"orderNumber"`
	Reason      string          `json:"reason"`
	Callback    *CallbackReport `json:"callback,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueuedAt"`
}

// CallbackReport is the verified outcome of a gateway callback.
type CallbackReport struct {
	Status       entity.PaymentStatus `json:"status"`
	Amount       decimal.Decimal      `json:"amount"`
	PaymentType  string               `json:"paymentType,omitempty"`
	ErrorCode    string               `json:"errorCode,omitempty"`
	ErrorMessage string               `json:"errorMessage,omitempty"`
}

func newCallbackReport(report entity.GatewayReport) *CallbackReport {
	return &CallbackReport{
		Status:       report.Status,
		Amount:       report.Amount,
		PaymentType:  report.PaymentType,
		ErrorCode:    report.ErrorCode,
		ErrorMessage: report.ErrorMessage,
	}
}

func (r *CallbackReport) GatewayReport() entity.GatewayReport {
	return entity.GatewayReport{
		Status:       r.Status,
		Amount:       r.Amount,
		PaymentType:  r.PaymentType,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
	}
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ service.FulfillmentQueue = (*FulfillmentPublisher)(nil)

type FulfillmentPublisher struct {
	writer MessageWriter
	topic  string
	metric metric.Kafka
	log    logger.Logger
}

func NewFulfillmentPublisher(
	writer MessageWriter,
	topic string,
	metric metric.Kafka,
	log logger.Logger,
) *FulfillmentPublisher {
	return &FulfillmentPublisher{
		writer: writer,
		topic:  topic,
		metric: metric,
		log:    log,
	}
}

func (p *FulfillmentPublisher) Enqueue(ctx context.Context, orderNumber, reason string) error {
	if err := p.publish(ctx, &FulfillmentTask{
		OrderNumber: orderNumber,
		Reason:      reason,
	}); err != nil {
		return fmt.Errorf("transport.kafka.FulfillmentPublisher.Enqueue: %w", err)
	}
	return nil
}

// EnqueueCallback queues a verified callback for replay. The task shares
// the order's key, so it stays ordered with the order's other tasks.
func (p *FulfillmentPublisher) EnqueueCallback(
	ctx context.Context,
	orderNumber string,
	report entity.GatewayReport,
) error {
	if err := p.publish(ctx, &FulfillmentTask{
		OrderNumber: orderNumber,
		Reason:      "callback replay",
		Callback:    newCallbackReport(report),
	}); err != nil {
		return fmt.Errorf("transport.kafka.FulfillmentPublisher.EnqueueCallback: %w", err)
	}
	return nil
}

func (p *FulfillmentPublisher) publish(ctx context.Context, task *FulfillmentTask) error {
	task.EnqueuedAt = time.Now().UTC()

	value, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	if err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.OrderNumber),
		Value: value,
	}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	p.metric.MessagePublished(p.topic)
	p.log.LogAttrs(ctx, logger.InfoLevel, "fulfillment task queued",
		logger.OrderNumber(task.OrderNumber),
		logger.String("reason", task.Reason),
		logger.String("topic", p.topic),
	)
	return nil
}

func (p *FulfillmentPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("transport.kafka.FulfillmentPublisher.Close: %w", err)
	}
	return nil
}

func decodeTask(value []byte) (*FulfillmentTask, error) {
	var task FulfillmentTask
	if err := json.Unmarshal(value, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	if task.OrderNumber == "" {
		return nil, errors.New("task without order number")
	}
	return &task, nil
}
