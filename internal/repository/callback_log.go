package repository

import (
	"context"
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/storage/postgres"
)

type CallbackLogRepository struct {
	db *postgres.Postgres
}

func NewCallbackLogRepository(db *postgres.Postgres) *CallbackLogRepository {
	return &CallbackLogRepository{db}
}

// Create appends an audit row. It runs outside any payment transaction so
// the log survives a rolled back callback.
func (r *CallbackLogRepository) Create(ctx context.Context, log *entity.CallbackLog) error {
	const op = "repository.callbackLog.Create"

	payload := []byte(log.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query := r.db.Builder.Insert("callback_logs").
		Columns("id", "order_number", "status", "result", "detail", "payload", "received_at", "processed_at").
		Values(
			log.ID,
			log.OrderNumber,
			log.Status,
			string(log.Result),
			log.Detail,
			payload,
			log.ReceivedAt,
			log.ProcessedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: building query: %w", op, err)
	}

	if _, err = r.db.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("%s: exec: %w", op, err)
	}
	return nil
}
