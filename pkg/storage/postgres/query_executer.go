package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryExecuter is what repositories write through, so the same method
// works inside a caller's transaction and directly on the pool.
type QueryExecuter interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	_ QueryExecuter = (*TxQueryExecuter)(nil)
	_ QueryExecuter = (*pgxpool.Pool)(nil)
)

// TxQueryExecuter runs statements inside one transaction. Operation names
// the transaction in every error, so a failed payment update can be told
// apart from a failed license insert in the logs.
type TxQueryExecuter struct {
	Tx        pgx.Tx
	Operation string
}

func (t *TxQueryExecuter) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := t.Tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.op("Query"), err)
	}
	return rows, nil
}

// QueryRow defers errors to Scan. pgx.ErrNoRows stays matchable with
// errors.Is.
func (t *TxQueryExecuter) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return txRow{row: t.Tx.QueryRow(ctx, sql, args...), op: t.op("QueryRow")}
}

func (t *TxQueryExecuter) Exec(
	ctx context.Context,
	sql string,
	args ...any,
) (pgconn.CommandTag, error) {
	commTag, err := t.Tx.Exec(ctx, sql, args...)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("%s: %w", t.op("Exec"), err)
	}
	return commTag, nil
}

func (t *TxQueryExecuter) op(method string) string {
	if t.Operation == "" {
		return "storage.postgres.TxQueryExecuter." + method
	}
	return "storage.postgres.TxQueryExecuter." + method + "(" + t.Operation + ")"
}

type txRow struct {
	row pgx.Row
	op  string
}

func (r txRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return fmt.Errorf("%s: %w", r.op, err)
	}
	return nil
}
