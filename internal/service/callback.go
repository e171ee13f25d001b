package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/gateway"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/lock"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
)

const (
	_defaultCallbackLockTTL = 30 * time.Second
	_callbackLogTimeout     = 2 * time.Second
)

// CallbackService processes the gateway's asynchronous payment results.
// Whatever happens, the gateway gets its acknowledgement; the outcome is
// recorded in the callback log and metrics instead.
type CallbackService struct {
	verifier    CallbackVerifier
	ledger      *Ledger
	fulfiller   Fulfiller
	queue       FulfillmentQueue
	txManager   transaction.Manager
	locker      Locker
	lockTTL     time.Duration
	callbackLog CallbackLogRepository
	logger      logger.Logger
	metrics     metric.Payment
	now         func() time.Time
}

func NewCallbackService(
	verifier CallbackVerifier,
	ledger *Ledger,
	fulfiller Fulfiller,
	queue FulfillmentQueue,
	txManager transaction.Manager,
	locker Locker,
	lockTTL time.Duration,
	callbackLog CallbackLogRepository,
	logger logger.Logger,
	metrics metric.Payment,
) *CallbackService {
	if lockTTL <= 0 {
		lockTTL = _defaultCallbackLockTTL
	}
	if locker == nil {
		locker = lock.Noop{}
	}

	return &CallbackService{
		verifier:    verifier,
		ledger:      ledger,
		fulfiller:   fulfiller,
		queue:       queue,
		txManager:   txManager,
		locker:      locker,
		lockTTL:     lockTTL,
		callbackLog: callbackLog,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

// HandleCallback verifies and applies one callback delivery. Replays of an
// already applied callback are detected and acknowledged without effect.
func (s *CallbackService) HandleCallback(ctx context.Context, form url.Values) (result entity.CallbackResult) {
	const op = "service.CallbackService.HandleCallback"
	log := s.logger.Ctx(ctx)

	entry := &entity.CallbackLog{
		ID:          uuid.New(),
		OrderNumber: form.Get("merchant_oid"),
		Status:      form.Get("status"),
		Result:      entity.CallbackReceived,
		Payload:     redactedPayload(form),
		ReceivedAt:  s.now().UTC(),
	}
	defer func() {
		entry.Result = result
		entry.ProcessedAt = s.now().UTC()
		s.metrics.Callback(string(result))
		s.writeLog(ctx, entry)
	}()

	cb, err := gateway.ParseCallback(form)
	if err != nil {
		entry.Detail = err.Error()
		log.LogAttrs(ctx, logger.WarnLevel, "malformed gateway callback",
			logger.String("op", op),
			logger.OrderNumber(entry.OrderNumber),
			logger.Err(err),
		)
		return entity.CallbackMalformed
	}
	ctx = logger.WithOrderNumber(ctx, cb.OrderNumber)

	if cb.MerchantID != s.verifier.MerchantID() ||
		!s.verifier.Verify(gateway.KindCallback, cb.SignatureFields(), cb.Hash) {
		entry.Detail = "signature verification failed"
		s.metrics.SignatureRejected()
		log.LogAttrs(ctx, logger.ErrorLevel, "security: gateway callback rejected",
			logger.String("op", op),
			logger.OrderNumber(cb.OrderNumber),
			logger.String("merchant_id", cb.MerchantID),
			logger.String("reason", entry.Detail),
		)
		return entity.CallbackRejected
	}

	report := cb.Report()

	lockKey := "callback:" + cb.OrderNumber
	token, err := s.locker.Obtain(ctx, lockKey, s.lockTTL)
	switch {
	case errors.Is(err, lock.ErrNotObtained):
		// the delivery holding the lock may still fail, so this one is
		// kept for a replay that is a no-op once the payment is terminal
		log.LogAttrs(ctx, logger.InfoLevel, "callback already in flight",
			logger.String("op", op),
			logger.OrderNumber(cb.OrderNumber),
		)
		if qErr := s.queueReplay(ctx, cb.OrderNumber, report); qErr != nil {
			entry.Detail = "another delivery is being processed; replay not queued: " + qErr.Error()
			return entity.CallbackDuplicate
		}
		entry.Detail = "another delivery is being processed"
		return entity.CallbackQueued
	case err != nil:
		// the row lock still serialises writers
		log.LogAttrs(ctx, logger.WarnLevel, "callback lock unavailable, continuing without it",
			logger.String("op", op),
			logger.OrderNumber(cb.OrderNumber),
			logger.Err(err),
		)
	default:
		defer s.releaseLock(ctx, lockKey, token)
	}

	payment, applied, err := s.applyReport(ctx, cb.OrderNumber, report)
	switch {
	case errors.Is(err, entity.ErrDataNotFound):
		entry.Detail = "unknown order number"
		log.LogAttrs(ctx, logger.WarnLevel, "callback for unknown order",
			logger.String("op", op),
			logger.OrderNumber(cb.OrderNumber),
		)
		return entity.CallbackUnknownOrder
	case err != nil:
		entry.Detail = err.Error()
		log.LogAttrs(ctx, logger.ErrorLevel, "failed to apply callback",
			logger.String("op", op),
			logger.OrderNumber(cb.OrderNumber),
			logger.Err(err),
		)
		if qErr := s.queueReplay(ctx, cb.OrderNumber, report); qErr != nil {
			entry.Detail += "; replay not queued: " + qErr.Error()
			return entity.CallbackReceived
		}
		return entity.CallbackQueued
	case !applied:
		entry.Detail = "payment already " + string(payment.Status)
		log.LogAttrs(ctx, logger.InfoLevel, "duplicate callback ignored",
			logger.String("op", op),
			logger.OrderNumber(cb.OrderNumber),
			logger.String("status", string(payment.Status)),
		)
		return entity.CallbackDuplicate
	}

	s.logApplied(ctx, op, payment, report)

	if payment.FulfillmentStatus != entity.FulfillmentPending {
		return entity.CallbackApplied
	}

	if err = s.fulfiller.Fulfill(ctx, payment.OrderNumber); err != nil {
		entry.Detail = err.Error()
		return entity.CallbackFulfillmentFailed
	}
	return entity.CallbackApplied
}

// ReplayCallback applies a verified callback that could not be applied when
// it was delivered. Replaying an already applied callback only finishes a
// fulfillment that is still pending.
func (s *CallbackService) ReplayCallback(ctx context.Context, orderNumber string, report entity.GatewayReport) error {
	const op = "service.CallbackService.ReplayCallback"
	ctx = logger.WithOrderNumber(ctx, orderNumber)

	payment, applied, err := s.applyReport(ctx, orderNumber, report)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if applied {
		s.logApplied(ctx, op, payment, report)
	}

	if payment.FulfillmentStatus != entity.FulfillmentPending {
		return nil
	}

	// Fulfill queues its own retry for failures another attempt can fix
	if err = s.fulfiller.Fulfill(ctx, orderNumber); err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "fulfillment after callback replay failed",
			logger.String("op", op),
			logger.OrderNumber(orderNumber),
			logger.Err(err),
		)
	}
	return nil
}

func (s *CallbackService) applyReport(
	ctx context.Context,
	orderNumber string,
	report entity.GatewayReport,
) (payment *entity.Payment, applied bool, err error) {
	err = s.txManager.ExecuteInTransaction(ctx, "ApplyCallback", func(tx postgres.QueryExecuter) error {
		var applyErr error
		payment, applied, applyErr = s.ledger.Apply(ctx, tx, orderNumber, report)
		if applyErr != nil {
			return transaction.HandleError("ApplyCallback", "apply transition", applyErr)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return payment, applied, nil
}

func (s *CallbackService) queueReplay(ctx context.Context, orderNumber string, report entity.GatewayReport) error {
	if s.queue == nil {
		return errors.New("no replay queue configured")
	}
	if err := s.queue.EnqueueCallback(context.WithoutCancel(ctx), orderNumber, report); err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "verified callback could not be queued for replay",
			logger.OrderNumber(orderNumber),
			logger.String("status", string(report.Status)),
			logger.String("reported_amount", report.Amount.StringFixed(2)),
			logger.Err(err),
		)
		return err
	}
	return nil
}

func (s *CallbackService) logApplied(ctx context.Context, op string, payment *entity.Payment, report entity.GatewayReport) {
	log := s.logger.Ctx(ctx)
	log.LogAttrs(ctx, logger.InfoLevel, "payment status changed",
		logger.String("op", op),
		logger.OrderNumber(payment.OrderNumber),
		logger.String("status", string(payment.Status)),
	)

	if payment.Status == entity.PaymentStatusSuccess && !report.Amount.Equal(payment.Amount) {
		log.LogAttrs(ctx, logger.WarnLevel, "reported amount differs from charged amount",
			logger.String("op", op),
			logger.OrderNumber(payment.OrderNumber),
			logger.String("charged", payment.Amount.StringFixed(2)),
			logger.String("reported", report.Amount.StringFixed(2)),
		)
	}
}

func (s *CallbackService) releaseLock(ctx context.Context, key, token string) {
	if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.WarnLevel, "failed to release callback lock",
			logger.String("key", key),
			logger.Err(err),
		)
	}
}

func (s *CallbackService) writeLog(ctx context.Context, entry *entity.CallbackLog) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _callbackLogTimeout)
	defer cancel()

	if err := s.callbackLog.Create(ctx, entry); err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "failed to write callback log",
			logger.OrderNumber(entry.OrderNumber),
			logger.String("result", string(entry.Result)),
			logger.Err(err),
		)
	}
}

func redactedPayload(form url.Values) json.RawMessage {
	payload, err := json.Marshal(gateway.Redact(form))
	if err != nil {
		return json.RawMessage(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	return payload
}
