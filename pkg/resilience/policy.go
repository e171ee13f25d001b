package resilience

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	_defaultMaxAttempts    = 4
	_defaultBaseRetryDelay = 200 * time.Millisecond
	_defaultMaxRetryDelay  = 2 * time.Second

	_backoffMultiplier = 2
)

// Policy wraps a call with bounded retries and a circuit breaker. Only
// TransientError failures are retried and counted by the breaker.
type Policy struct {
	breaker *Breaker

	maxAttempts    int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	onRetry        func(operation string, attempt int, delay time.Duration, err error)
}

type Option func(*Policy)

func MaxAttempts(attempts int) Option {
	return func(p *Policy) {
		p.maxAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(p *Policy) {
		p.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(p *Policy) {
		p.maxRetryDelay = delay
	}
}

func OnRetry(fn func(operation string, attempt int, delay time.Duration, err error)) Option {
	return func(p *Policy) {
		p.onRetry = fn
	}
}

func NewPolicy(breaker *Breaker, opts ...Option) (*Policy, error) {
	p := &Policy{
		breaker:        breaker,
		maxAttempts:    _defaultMaxAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("resilience.NewPolicy: %w", err)
	}
	return p, nil
}

func (p *Policy) Breaker() *Breaker {
	return p.breaker
}

// Do runs fn until it succeeds, fails permanently, the attempts run out or
// ctx is done. Cancellation is checked before every attempt and while
// waiting between attempts.
func (p *Policy) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	const op = "resilience.Policy.Do"

	var lastErr error
	currentBackoff := p.baseRetryDelay

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %s: %w", op, operation, err)
		}

		if err := p.breaker.Allow(); err != nil {
			if lastErr != nil {
				return fmt.Errorf("%s: %s: %w (last error: %v)", op, operation, err, lastErr)
			}
			return fmt.Errorf("%s: %s: %w", op, operation, err)
		}

		err := fn(ctx)
		switch {
		case err == nil:
			p.breaker.Success()
			return nil
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			p.breaker.Release()
			return fmt.Errorf("%s: %s: %w", op, operation, err)
		case !IsTransient(err):
			// the dependency answered, so the circuit stays healthy
			p.breaker.Success()
			return err
		}

		p.breaker.Failure()
		lastErr = err
		if attempt == p.maxAttempts {
			break
		}

		delay := time.Duration(rand.Int64N(int64(currentBackoff * _backoffMultiplier)))
		if delay > p.maxRetryDelay {
			delay = p.maxRetryDelay
		}
		if p.onRetry != nil {
			p.onRetry(operation, attempt, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %s: waiting for retry: %w", op, operation, ctx.Err())
		}

		currentBackoff = min(currentBackoff*_backoffMultiplier, p.maxRetryDelay)
	}

	return fmt.Errorf("%s: %s: max attempts (%d) exceeded: %w", op, operation, p.maxAttempts, lastErr)
}

func (p *Policy) validate() error {
	if p.breaker == nil {
		return errors.New("breaker is required")
	}
	if p.maxAttempts <= 0 {
		return errors.New("invalid maxAttempts: must be > 0")
	}
	if p.baseRetryDelay <= 0 {
		return errors.New("invalid baseRetryDelay: must be > 0")
	}
	if p.maxRetryDelay <= 0 {
		return errors.New("invalid maxRetryDelay: must be > 0")
	}
	if p.baseRetryDelay > p.maxRetryDelay {
		return errors.New("baseRetryDelay cannot exceed maxRetryDelay")
	}
	return nil
}
