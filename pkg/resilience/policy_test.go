package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/resilience"

	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream 503")

func newPolicy(t *testing.T, threshold, attempts int) *resilience.Policy {
	t.Helper()

	b, err := resilience.NewBreaker(threshold, time.Hour)
	require.NoError(t, err)

	p, err := resilience.NewPolicy(b,
		resilience.MaxAttempts(attempts),
		resilience.BaseRetryDelay(time.Millisecond),
		resilience.MaxRetryDelay(2*time.Millisecond),
	)
	require.NoError(t, err)
	return p
}

func TestPolicy_RetriesTransientUntilSuccess(t *testing.T) {
	t.Parallel()

	p := newPolicy(t, 5, 4)

	calls := 0
	err := p.Do(context.Background(), "charge", func(context.Context) error {
		calls++
		if calls < 4 {
			return resilience.Transient(errUpstream)
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 4, calls)
	require.Equal(t, resilience.StateClosed, p.Breaker().State())
}

func TestPolicy_PermanentErrorNotRetried(t *testing.T) {
	t.Parallel()

	p := newPolicy(t, 5, 4)
	permanent := errors.New("400 bad request")

	calls := 0
	err := p.Do(context.Background(), "charge", func(context.Context) error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
}

func TestPolicy_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	p := newPolicy(t, 10, 3)

	calls := 0
	err := p.Do(context.Background(), "charge", func(context.Context) error {
		calls++
		return resilience.Transient(errUpstream)
	})

	require.ErrorIs(t, err, errUpstream)
	require.True(t, resilience.IsTransient(err))
	require.Equal(t, 3, calls)
}

func TestPolicy_OpenCircuitFailsFast(t *testing.T) {
	t.Parallel()

	p := newPolicy(t, 2, 1)

	for range 2 {
		err := p.Do(context.Background(), "charge", func(context.Context) error {
			return resilience.Transient(errUpstream)
		})
		require.ErrorIs(t, err, errUpstream)
	}
	require.Equal(t, resilience.StateOpen, p.Breaker().State())

	called := false
	err := p.Do(context.Background(), "charge", func(context.Context) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	require.False(t, called)
}

func TestPolicy_HonoursCancellation(t *testing.T) {
	t.Parallel()

	b, err := resilience.NewBreaker(10, time.Hour)
	require.NoError(t, err)
	p, err := resilience.NewPolicy(b,
		resilience.MaxAttempts(5),
		resilience.BaseRetryDelay(time.Second),
		resilience.MaxRetryDelay(time.Second),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err = p.Do(ctx, "charge", func(context.Context) error {
		calls++
		cancel()
		return resilience.Transient(errUpstream)
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, calls)

	err = p.Do(ctx, "charge", func(context.Context) error {
		t.Fatal("must not be called with a cancelled context")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_OnRetryHook(t *testing.T) {
	t.Parallel()

	b, err := resilience.NewBreaker(10, time.Hour)
	require.NoError(t, err)

	var attempts []int
	p, err := resilience.NewPolicy(b,
		resilience.MaxAttempts(3),
		resilience.BaseRetryDelay(time.Millisecond),
		resilience.MaxRetryDelay(time.Millisecond),
		resilience.OnRetry(func(_ string, attempt int, _ time.Duration, _ error) {
			attempts = append(attempts, attempt)
		}),
	)
	require.NoError(t, err)

	_ = p.Do(context.Background(), "delete_link", func(context.Context) error {
		return resilience.Transient(errUpstream)
	})

	require.Equal(t, []int{1, 2}, attempts)
}
