package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/basket"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres/transaction"
)

const (
	_fulfillmentResultFulfilled = "fulfilled"
	_fulfillmentResultSkipped   = "skipped"
	_fulfillmentResultFailed    = "failed"
	_fulfillmentResultQueued    = "queued"
)

// FulfillmentService applies the license side effect of a paid payment.
// The side effect and the fulfilled mark commit together, so a payment is
// fulfilled at most once however many times it is retried.
type FulfillmentService struct {
	payments  PaymentRepository
	licenses  LicenseRepository
	catalog   *Catalog
	txManager transaction.Manager
	queue     FulfillmentQueue
	logger    logger.Logger
	metrics   metric.Payment
	now       func() time.Time
}

func NewFulfillmentService(
	payments PaymentRepository,
	licenses LicenseRepository,
	catalog *Catalog,
	txManager transaction.Manager,
	queue FulfillmentQueue,
	logger logger.Logger,
	metrics metric.Payment,
) *FulfillmentService {
	return &FulfillmentService{
		payments:  payments,
		licenses:  licenses,
		catalog:   catalog,
		txManager: txManager,
		queue:     queue,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Fulfill is the first attempt, made right after the callback. A failure
// that may pass on its own is handed to the retry queue.
func (s *FulfillmentService) Fulfill(ctx context.Context, orderNumber string) error {
	const op = "service.FulfillmentService.Fulfill"

	err := s.fulfill(ctx, orderNumber)
	if err == nil {
		return nil
	}

	if IsPermanentFulfillmentError(err) || s.queue == nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if qErr := s.queue.Enqueue(ctx, orderNumber, err.Error()); qErr != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "failed to queue fulfillment retry",
			logger.String("op", op),
			logger.OrderNumber(orderNumber),
			logger.Err(qErr),
		)
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Fulfillment("retry", _fulfillmentResultQueued)

	return fmt.Errorf("%s: %w", op, err)
}

// Retry makes another attempt without queueing on failure. Used by the
// retry consumer and by operators.
func (s *FulfillmentService) Retry(ctx context.Context, orderNumber string) error {
	if err := s.fulfill(ctx, orderNumber); err != nil {
		return fmt.Errorf("service.FulfillmentService.Retry: %w", err)
	}
	return nil
}

// IsPermanentFulfillmentError reports failures that another attempt cannot
// fix without an operator changing data first.
func IsPermanentFulfillmentError(err error) bool {
	return errors.Is(err, entity.ErrDataNotFound) ||
		errors.Is(err, entity.ErrBasketMismatch) ||
		errors.Is(err, entity.ErrInvalidData) ||
		errors.Is(err, entity.ErrPaymentNotPaid)
}

func (s *FulfillmentService) fulfill(ctx context.Context, orderNumber string) error {
	const op = "service.FulfillmentService.fulfill"
	log := s.logger.Ctx(ctx)

	var (
		operation entity.LicenseOperation
		skipped   bool
	)

	err := s.txManager.ExecuteInTransaction(ctx, "FulfillPayment", func(tx postgres.QueryExecuter) error {
		payment, err := s.payments.GetByOrderNumberForUpdate(ctx, tx, orderNumber)
		if err != nil {
			return transaction.HandleError("FulfillPayment", "lock payment", err)
		}
		operation = payment.Operation

		if payment.Status != entity.PaymentStatusSuccess {
			return fmt.Errorf("%w: order %s is %s", entity.ErrPaymentNotPaid, orderNumber, payment.Status)
		}
		if payment.FulfillmentStatus == entity.FulfillmentFulfilled {
			skipped = true
			return nil
		}

		now := s.now().UTC()
		if err = s.apply(ctx, tx, payment, now); err != nil {
			return transaction.HandleError("FulfillPayment", "apply "+string(payment.Operation), err)
		}

		payment.MarkFulfilled(now)
		if err = s.payments.UpdateFulfillment(ctx, tx, payment); err != nil {
			return transaction.HandleError("FulfillPayment", "mark fulfilled", err)
		}
		return nil
	})

	switch {
	case err == nil && skipped:
		s.metrics.Fulfillment(string(operation), _fulfillmentResultSkipped)
		log.LogAttrs(ctx, logger.InfoLevel, "payment already fulfilled",
			logger.String("op", op),
			logger.OrderNumber(orderNumber),
		)
		return nil
	case err == nil:
		s.metrics.Fulfillment(string(operation), _fulfillmentResultFulfilled)
		log.LogAttrs(ctx, logger.InfoLevel, "payment fulfilled",
			logger.String("op", op),
			logger.OrderNumber(orderNumber),
			logger.String("operation", string(operation)),
		)
		return nil
	}

	s.metrics.Fulfillment(string(operation), _fulfillmentResultFailed)
	log.LogAttrs(ctx, logger.ErrorLevel, "payment fulfillment failed",
		logger.String("op", op),
		logger.OrderNumber(orderNumber),
		logger.String("operation", string(operation)),
		logger.Bool("permanent", IsPermanentFulfillmentError(err)),
		logger.Err(err),
	)

	if !errors.Is(err, entity.ErrPaymentNotPaid) && !errors.Is(err, context.Canceled) {
		s.recordFailure(ctx, orderNumber, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// recordFailure marks the payment failed in its own transaction, after the
// attempt's partial work has been rolled back.
func (s *FulfillmentService) recordFailure(ctx context.Context, orderNumber string, cause error) {
	const op = "service.FulfillmentService.recordFailure"

	err := s.txManager.ExecuteInTransaction(ctx, "RecordFulfillmentFailure", func(tx postgres.QueryExecuter) error {
		payment, err := s.payments.GetByOrderNumberForUpdate(ctx, tx, orderNumber)
		if err != nil {
			return transaction.HandleError("RecordFulfillmentFailure", "lock payment", err)
		}
		if payment.FulfillmentStatus == entity.FulfillmentFulfilled {
			return nil
		}

		payment.MarkFulfillmentFailed(cause, s.now().UTC())
		return s.payments.UpdateFulfillment(ctx, tx, payment)
	})
	if err != nil {
		s.logger.Ctx(ctx).LogAttrs(ctx, logger.ErrorLevel, "failed to record fulfillment failure",
			logger.String("op", op),
			logger.OrderNumber(orderNumber),
			logger.Err(err),
		)
	}
}

func (s *FulfillmentService) apply(
	ctx context.Context,
	tx postgres.QueryExecuter,
	payment *entity.Payment,
	now time.Time,
) error {
	if payment.Operation == entity.OperationLink {
		return nil
	}

	b, err := basket.Decode(payment.Basket, payment.Operation)
	if err != nil {
		return err
	}

	switch b := b.(type) {
	case *basket.NewLicense:
		return s.issueLicenses(ctx, tx, payment, b, now)
	case *basket.ExtendLicense:
		return s.extendLicense(ctx, tx, b, now)
	default:
		return fmt.Errorf("%w: unsupported basket %T", entity.ErrBasketMismatch, b)
	}
}

func (s *FulfillmentService) issueLicenses(
	ctx context.Context,
	tx postgres.QueryExecuter,
	payment *entity.Payment,
	b *basket.NewLicense,
	now time.Time,
) error {
	pairs := b.Pairs()
	licenses := make([]*entity.License, 0, len(pairs))
	for _, pair := range pairs {
		pkg, err := s.catalog.Package(ctx, pair[1])
		if err != nil {
			return err
		}
		licenses = append(licenses, entity.NewLicense(payment.UserID, pair[0], pkg, payment.PayerIsDealer, now))
	}
	return s.licenses.Create(ctx, tx, licenses)
}

func (s *FulfillmentService) extendLicense(
	ctx context.Context,
	tx postgres.QueryExecuter,
	b *basket.ExtendLicense,
	now time.Time,
) error {
	license, err := s.licenses.GetByIDForUpdate(ctx, tx, b.LicenseID)
	if err != nil {
		return err
	}
	if license.RestaurantID != b.RestaurantID {
		return fmt.Errorf("%w: license %s belongs to restaurant %s, not %s",
			entity.ErrBasketMismatch, license.ID, license.RestaurantID, b.RestaurantID)
	}

	pkg, err := s.catalog.Package(ctx, b.LicensePackageID)
	if err != nil {
		return err
	}

	license.ExtendWith(pkg, now)
	return s.licenses.UpdateTerm(ctx, tx, license)
}
