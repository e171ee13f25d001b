package kafkat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	kafkat "github.com/liwayazilim/liwamenu-backend-sub000/internal/transport/kafka"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/kafka/dlq"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs chan kafka.Message
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) Close() error { return nil }

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func (w *fakeWriter) written() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

type fakeRetrier struct {
	mu      sync.Mutex
	calls   []string
	replays []entity.GatewayReport
	err     error
}

func (f *fakeRetrier) ReplayCallback(_ context.Context, orderNumber string, report entity.GatewayReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderNumber)
	f.replays = append(f.replays, report)
	return f.err
}

func (f *fakeRetrier) replayed() []entity.GatewayReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.GatewayReport(nil), f.replays...)
}

func (f *fakeRetrier) Retry(_ context.Context, orderNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, orderNumber)
	return f.err
}

func (f *fakeRetrier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func taskMessage(t *testing.T, orderNumber string) kafka.Message {
	t.Helper()

	value, err := json.Marshal(kafkat.FulfillmentTask{OrderNumber: orderNumber, Reason: "connection reset"})
	require.NoError(t, err)
	return kafka.Message{Topic: "license-fulfillment", Key: []byte(orderNumber), Value: value}
}

func TestFulfillmentPublisher_Enqueue(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := kafkat.NewFulfillmentPublisher(w, "license-fulfillment", metric.NewFactory().Kafka(), logger.NewNop())

	require.NoError(t, p.Enqueue(context.Background(), "LM1", "connection reset"))

	msgs := w.written()
	require.Len(t, msgs, 1)
	require.Equal(t, []byte("LM1"), msgs[0].Key)

	var task kafkat.FulfillmentTask
	require.NoError(t, json.Unmarshal(msgs[0].Value, &task))
	require.Equal(t, "LM1", task.OrderNumber)
	require.Equal(t, "connection reset", task.Reason)
	require.False(t, task.EnqueuedAt.IsZero())
}

func TestFulfillmentPublisher_EnqueueCallback(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := kafkat.NewFulfillmentPublisher(w, "license-fulfillment", metric.NewFactory().Kafka(), logger.NewNop())

	report := entity.GatewayReport{
		Status:      entity.PaymentStatusSuccess,
		Amount:      decimal.RequireFromString("1499.90"),
		PaymentType: "card",
	}
	require.NoError(t, p.EnqueueCallback(context.Background(), "LM1", report))

	msgs := w.written()
	require.Len(t, msgs, 1)
	require.Equal(t, []byte("LM1"), msgs[0].Key)

	var task kafkat.FulfillmentTask
	require.NoError(t, json.Unmarshal(msgs[0].Value, &task))
	require.Equal(t, "LM1", task.OrderNumber)
	require.NotNil(t, task.Callback)

	got := task.Callback.GatewayReport()
	require.Equal(t, report.Status, got.Status)
	require.True(t, report.Amount.Equal(got.Amount))
	require.Equal(t, report.PaymentType, got.PaymentType)
}

func callbackTaskMessage(t *testing.T, orderNumber string, status entity.PaymentStatus) kafka.Message {
	t.Helper()

	value, err := json.Marshal(kafkat.FulfillmentTask{
		OrderNumber: orderNumber,
		Reason:      "callback replay",
		Callback:    &kafkat.CallbackReport{Status: status, Amount: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	return kafka.Message{Topic: "license-fulfillment", Key: []byte(orderNumber), Value: value}
}

func runConsumer(t *testing.T, retrier *fakeRetrier, dlqWriter *fakeWriter, msgs ...kafka.Message) (stop func()) {
	t.Helper()

	log := logger.NewNop()
	factory := metric.NewFactory()
	d, err := dlq.New(dlqWriter, "license-fulfillment-dlq", log, factory.DLQ(),
		dlq.MaxAttemptsCount(3), dlq.BaseRetryDelay(time.Millisecond), dlq.MaxRetryDelay(2*time.Millisecond))
	require.NoError(t, err)

	c := kafkat.NewFulfillmentConsumer(newFakeReader(msgs...), d, retrier, factory.Kafka(), log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("consumer did not stop")
		}
	}
}

func TestFulfillmentConsumer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc      string
		err       error
		wantCalls int
		wantDLQ   int
	}{
		{desc: "success", err: nil, wantCalls: 1, wantDLQ: 0},
		{desc: "permanent failure is not retried", err: fmt.Errorf("svc: %w", entity.ErrBasketMismatch), wantCalls: 1, wantDLQ: 0},
		{desc: "transient failure is parked", err: errors.New("connection reset"), wantCalls: 3, wantDLQ: 1},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			retrier := &fakeRetrier{err: tC.err}
			dlqWriter := &fakeWriter{}
			stop := runConsumer(t, retrier, dlqWriter, taskMessage(t, "LM1"))

			require.Eventually(t, func() bool {
				return retrier.count() == tC.wantCalls && len(dlqWriter.written()) == tC.wantDLQ
			}, time.Second, 5*time.Millisecond)
			stop()

			require.Equal(t, tC.wantCalls, retrier.count())
			require.Len(t, dlqWriter.written(), tC.wantDLQ)
		})
	}
}

func TestFulfillmentConsumer_DropsGarbage(t *testing.T) {
	t.Parallel()

	retrier := &fakeRetrier{}
	dlqWriter := &fakeWriter{}
	stop := runConsumer(t, retrier, dlqWriter,
		kafka.Message{Value: []byte("not json")},
		taskMessage(t, "LM2"),
	)

	require.Eventually(t, func() bool { return retrier.count() == 1 }, time.Second, 5*time.Millisecond)
	stop()

	require.Equal(t, []string{"LM2"}, retrier.calls)
	require.Empty(t, dlqWriter.written())
}

func TestFulfillmentConsumer_ReplaysCallbacks(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc    string
		err     error
		wantDLQ int
	}{
		{desc: "replay applied", err: nil, wantDLQ: 0},
		{desc: "unknown order is not retried", err: fmt.Errorf("svc: %w", entity.ErrDataNotFound), wantDLQ: 0},
		{desc: "database still down is parked", err: errors.New("connection refused"), wantDLQ: 1},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			retrier := &fakeRetrier{err: tC.err}
			dlqWriter := &fakeWriter{}
			stop := runConsumer(t, retrier, dlqWriter, callbackTaskMessage(t, "LM1", entity.PaymentStatusSuccess))

			require.Eventually(t, func() bool {
				return len(retrier.replayed()) > 0 && len(dlqWriter.written()) == tC.wantDLQ
			}, time.Second, 5*time.Millisecond)
			stop()

			replays := retrier.replayed()
			require.Equal(t, entity.PaymentStatusSuccess, replays[0].Status)
			require.True(t, decimal.NewFromInt(100).Equal(replays[0].Amount))
			require.Equal(t, len(replays), retrier.count(), "callback tasks never go through Retry")
			require.Len(t, dlqWriter.written(), tC.wantDLQ)
		})
	}
}

type fakeDLQ struct {
	mu      sync.Mutex
	retries []int
}

func (f *fakeDLQ) Send(_ context.Context, _ kafka.Message, _ error, retryCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries = append(f.retries, retryCount)
	return nil
}

func (f *fakeDLQ) sent() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.retries...)
}

func parkedMessage(t *testing.T, orderNumber string, retryCount int) kafka.Message {
	t.Helper()

	task := taskMessage(t, orderNumber)
	value, err := json.Marshal(dlq.Message{
		Metadata: dlq.Metadata{OriginalTopic: task.Topic, RetryCount: retryCount, Error: "connection reset"},
		Payload:  string(task.Value),
	})
	require.NoError(t, err)
	return kafka.Message{Topic: "license-fulfillment-dlq", Key: task.Key, Value: value}
}

func TestDLQProcessor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc       string
		retryCount int
		err        error
		wantCalls  int
		wantParked []int
	}{
		{desc: "replay succeeds", retryCount: 1, wantCalls: 1},
		{desc: "replay fails and is parked again", retryCount: 1, err: errors.New("db down"), wantCalls: 1, wantParked: []int{2}},
		{desc: "past max retries is left alone", retryCount: 5, wantCalls: 0},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			retrier := &fakeRetrier{err: tC.err}
			parked := &fakeDLQ{}
			// The sentinel message proves the first one was fully handled.
			reader := newFakeReader(parkedMessage(t, "LM1", tC.retryCount), parkedMessage(t, "LM-SENTINEL", 0))
			p := kafkat.NewDLQProcessor(reader, parked, retrier, 5, time.Millisecond, metric.NewFactory().DLQ(), logger.NewNop())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- p.Start(ctx) }()

			require.Eventually(t, func() bool {
				retrier.mu.Lock()
				defer retrier.mu.Unlock()
				return len(retrier.calls) > 0 && retrier.calls[len(retrier.calls)-1] == "LM-SENTINEL"
			}, time.Second, 5*time.Millisecond)
			cancel()
			require.NoError(t, <-done)

			require.Equal(t, tC.wantCalls+1, retrier.count())
			var wantParked []int
			if tC.wantParked != nil {
				// The sentinel fails the same way and is parked at 1.
				wantParked = append(tC.wantParked, 1)
			}
			require.Equal(t, wantParked, parked.sent())
		})
	}
}
