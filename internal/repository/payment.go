package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const _paymentTable = "payments"

var _paymentColumns = []string{
	"id", "order_number", "user_id", "amount", "currency", "method", "status", "operation",
	"basket", "payer_is_dealer", "gateway_token", "transaction_id", "link_id", "link_url",
	"customer_name", "customer_email", "customer_phone", "customer_address", "customer_ip",
	"installment_count", "payment_type", "reported_amount", "error_code", "error_message",
	"fulfillment_status", "fulfillment_error", "fulfillment_attempts",
	"created_at", "updated_at", "paid_at", "fulfilled_at",
}

type PaymentRepository struct {
	db *postgres.Postgres
}

func NewPaymentRepository(db *postgres.Postgres) *PaymentRepository {
	return &PaymentRepository{db}
}

func (pr *PaymentRepository) Create(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	payment *entity.Payment,
) error {
	const op = "repository.payment.Create"

	query := pr.db.Builder.Insert(_paymentTable).
		Columns(_paymentColumns...).
		Values(
			payment.ID,
			payment.OrderNumber,
			payment.UserID,
			toMinor(payment.Amount),
			payment.Currency,
			string(payment.Method),
			string(payment.Status),
			string(payment.Operation),
			[]byte(payment.Basket),
			payment.PayerIsDealer,
			payment.GatewayToken,
			payment.TransactionID,
			payment.LinkID,
			payment.LinkURL,
			payment.CustomerName,
			payment.CustomerEmail,
			payment.CustomerPhone,
			payment.CustomerAddress,
			payment.CustomerIP,
			payment.InstallmentCount,
			payment.PaymentType,
			toMinor(payment.ReportedAmount),
			payment.ErrorCode,
			payment.ErrorMessage,
			string(payment.FulfillmentStatus),
			payment.FulfillmentError,
			payment.FulfillmentAttempts,
			payment.CreatedAt,
			payment.UpdatedAt,
			payment.PaidAt,
			payment.FulfilledAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = queryExecuter.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, entity.ErrConflictingData)
		}
		return fmt.Errorf("%s: exec: %w", op, err)
	}

	return nil
}

func (pr *PaymentRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*entity.Payment, error) {
	const op = "repository.payment.GetByOrderNumber"

	sql, args, err := pr.selectByOrderNumber(orderNumber).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	payment, err := scanPayment(pr.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// GetByOrderNumberForUpdate reads the payment and holds its row lock until
// the surrounding transaction ends.
func (pr *PaymentRepository) GetByOrderNumberForUpdate(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	orderNumber string,
) (*entity.Payment, error) {
	const op = "repository.payment.GetByOrderNumberForUpdate"

	sql, args, err := pr.selectByOrderNumber(orderNumber).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	payment, err := scanPayment(queryExecuter.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payment, nil
}

// UpdateGatewayResult stores what the gateway answered at initiation time.
// The status is left alone.
func (pr *PaymentRepository) UpdateGatewayResult(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	payment *entity.Payment,
) error {
	const op = "repository.payment.UpdateGatewayResult"

	query := pr.db.Builder.Update(_paymentTable).
		Set("gateway_token", payment.GatewayToken).
		Set("transaction_id", payment.TransactionID).
		Set("link_id", payment.LinkID).
		Set("link_url", payment.LinkURL).
		Set("error_code", payment.ErrorCode).
		Set("error_message", payment.ErrorMessage).
		Set("updated_at", payment.UpdatedAt).
		Where(squirrel.Eq{"order_number": payment.OrderNumber})

	return pr.execOne(ctx, queryExecuter, op, query)
}

// ApplyTransition persists a status change made by entity.Payment.Transition.
// The update only matches a row that is still waiting; false means another
// writer finished the payment first.
func (pr *PaymentRepository) ApplyTransition(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	payment *entity.Payment,
) (bool, error) {
	const op = "repository.payment.ApplyTransition"

	query := pr.db.Builder.Update(_paymentTable).
		Set("status", string(payment.Status)).
		Set("reported_amount", toMinor(payment.ReportedAmount)).
		Set("payment_type", payment.PaymentType).
		Set("error_code", payment.ErrorCode).
		Set("error_message", payment.ErrorMessage).
		Set("fulfillment_status", string(payment.FulfillmentStatus)).
		Set("paid_at", payment.PaidAt).
		Set("fulfilled_at", payment.FulfilledAt).
		Set("updated_at", payment.UpdatedAt).
		Where(squirrel.Eq{
			"order_number": payment.OrderNumber,
			"status":       string(entity.PaymentStatusWaiting),
		})

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := queryExecuter.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("%s: exec: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (pr *PaymentRepository) UpdateFulfillment(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	payment *entity.Payment,
) error {
	const op = "repository.payment.UpdateFulfillment"

	query := pr.db.Builder.Update(_paymentTable).
		Set("fulfillment_status", string(payment.FulfillmentStatus)).
		Set("fulfillment_error", payment.FulfillmentError).
		Set("fulfillment_attempts", payment.FulfillmentAttempts).
		Set("fulfilled_at", payment.FulfilledAt).
		Set("updated_at", payment.UpdatedAt).
		Where(squirrel.Eq{"order_number": payment.OrderNumber})

	return pr.execOne(ctx, queryExecuter, op, query)
}

// ListUnfulfilled returns paid payments whose license side effect is still
// pending or failed, oldest first.
func (pr *PaymentRepository) ListUnfulfilled(ctx context.Context, limit uint64) ([]*entity.Payment, error) {
	const op = "repository.payment.ListUnfulfilled"

	query := pr.db.Builder.Select(_paymentColumns...).
		From(_paymentTable).
		Where(squirrel.Eq{
			"status": string(entity.PaymentStatusSuccess),
			"fulfillment_status": []string{
				string(entity.FulfillmentPending),
				string(entity.FulfillmentFailed),
			},
		}).
		OrderBy("paid_at ASC").
		Limit(limit)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	rows, err := pr.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		payments = append(payments, payment)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows final error: %w", op, rows.Err())
	}

	return payments, nil
}

func (pr *PaymentRepository) selectByOrderNumber(orderNumber string) squirrel.SelectBuilder {
	return pr.db.Builder.Select(_paymentColumns...).
		From(_paymentTable).
		Where(squirrel.Eq{"order_number": orderNumber}).
		Limit(1)
}

func (pr *PaymentRepository) execOne(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	op string,
	query squirrel.UpdateBuilder,
) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	tag, err := queryExecuter.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrDataNotFound)
	}
	return nil
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var (
		p                                     entity.Payment
		amount, reported                      int64
		method, status, operation, fulfilment string
		basket                                []byte
		paidAt, fulfilledAt                   *time.Time
	)

	err := row.Scan(
		&p.ID,
		&p.OrderNumber,
		&p.UserID,
		&amount,
		&p.Currency,
		&method,
		&status,
		&operation,
		&basket,
		&p.PayerIsDealer,
		&p.GatewayToken,
		&p.TransactionID,
		&p.LinkID,
		&p.LinkURL,
		&p.CustomerName,
		&p.CustomerEmail,
		&p.CustomerPhone,
		&p.CustomerAddress,
		&p.CustomerIP,
		&p.InstallmentCount,
		&p.PaymentType,
		&reported,
		&p.ErrorCode,
		&p.ErrorMessage,
		&fulfilment,
		&p.FulfillmentError,
		&p.FulfillmentAttempts,
		&p.CreatedAt,
		&p.UpdatedAt,
		&paidAt,
		&fulfilledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("row scan: %w", err)
	}

	p.Amount = fromMinor(amount)
	p.ReportedAmount = fromMinor(reported)
	p.Method = entity.PaymentMethod(method)
	p.Status = entity.PaymentStatus(status)
	p.Operation = entity.LicenseOperation(operation)
	p.FulfillmentStatus = entity.FulfillmentStatus(fulfilment)
	p.Basket = basket
	p.PaidAt = paidAt
	p.FulfilledAt = fulfilledAt

	return &p, nil
}
