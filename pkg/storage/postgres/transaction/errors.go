package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	_codeUniqueViolation     = "23505"
	_codeForeignKeyViolation = "23503"
	_codeCheckViolation      = "23514"
	_codeLockNotAvailable    = "55P03"
)

var _retryableCodes = map[string]struct{}{
	"40P01": {}, "40001": {},
	"08000": {}, "08003": {}, "08006": {}, "08001": {}, "08004": {}, "08007": {}, "08P01": {},
}

// HandleError maps driver errors onto entity sentinels. Domain errors
// returned by the transaction body pass through unchanged; the original
// error stays in the chain so retry classification still sees it.
func HandleError(operation, step string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %s: %w: %w", operation, step, entity.ErrDataNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case _codeUniqueViolation:
			return fmt.Errorf("%s: %s: %w: %w", operation, step, entity.ErrConflictingData, err)
		case _codeForeignKeyViolation, _codeCheckViolation:
			return fmt.Errorf("%s: %s: %w: %w", operation, step, entity.ErrInvalidData, err)
		}
	}

	return fmt.Errorf("%s: %s: %w", operation, step, err)
}

func isRetryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := _retryableCodes[pgErr.Code]
		return ok
	}

	return errors.Is(err, pgx.ErrTxClosed)
}

func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == _codeLockNotAvailable
}
