package transaction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ...Option) *manager {
	t.Helper()

	opts = append([]Option{BaseRetryDelay(time.Millisecond), MaxRetryDelay(2 * time.Millisecond)}, opts...)
	tm, err := NewManager(nil, logger.NewNop(), metric.NewFactory().Transaction(), opts...)
	require.NoError(t, err)
	return tm.(*manager)
}

func TestNewManager_ReportsEveryBadOption(t *testing.T) {
	t.Parallel()

	_, err := NewManager(nil, logger.NewNop(), metric.NewFactory().Transaction(),
		MaxAttempts(0),
		BaseRetryDelay(time.Second),
		MaxRetryDelay(time.Millisecond),
	)

	require.ErrorContains(t, err, "invalid maxAttempts 0")
	require.ErrorContains(t, err, "baseRetryDelay 1s exceeds maxRetryDelay 1ms")
}

func TestWithRetry_LockTimeouts(t *testing.T) {
	t.Parallel()

	lockTimeout := fmt.Errorf("apply transition: %w", &pgconn.PgError{Code: "55P03"})

	testCases := []struct {
		desc      string
		opts      []Option
		wantCalls int
		wantErr   bool
	}{
		{desc: "retried when enabled", opts: []Option{RetryLockTimeouts()}, wantCalls: 2},
		{desc: "returned as is by default", wantCalls: 1, wantErr: true},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			t.Parallel()

			tm := newTestManager(t, tC.opts...)

			calls := 0
			err := tm.withRetry(context.Background(), "ApplyCallback", func() error {
				calls++
				if calls == 1 {
					return lockTimeout
				}
				return nil
			})

			require.Equal(t, tC.wantCalls, calls)
			if tC.wantErr {
				require.ErrorIs(t, err, lockTimeout)
				return
			}
			require.NoError(t, err)
		})
	}
}
