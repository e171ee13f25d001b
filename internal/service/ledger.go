package service

import (
	"context"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
)

// Ledger owns payment status changes. Every change goes through Apply
// inside a caller's transaction so the row lock covers read and write.
type Ledger struct {
	payments PaymentRepository
	metrics  metric.Payment
	now      func() time.Time
}

func NewLedger(payments PaymentRepository, metrics metric.Payment) *Ledger {
	return &Ledger{
		payments: payments,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Apply locks the payment and moves it to report.Status. applied is false
// when the payment was already terminal; that is not an error. A missing
// payment returns entity.ErrDataNotFound.
func (l *Ledger) Apply(
	ctx context.Context,
	tx postgres.QueryExecuter,
	orderNumber string,
	report entity.GatewayReport,
) (payment *entity.Payment, applied bool, err error) {
	const op = "service.Ledger.Apply"

	payment, err = l.payments.GetByOrderNumberForUpdate(ctx, tx, orderNumber)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	from := payment.Status
	if !payment.Transition(report, l.now().UTC()) {
		return payment, false, nil
	}

	updated, err := l.payments.ApplyTransition(ctx, tx, payment)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !updated {
		return payment, false, nil
	}

	l.metrics.Transition(string(from), string(payment.Status))
	return payment, true, nil
}
