package transaction

import (
	"errors"
	"fmt"
	"time"
)

type Option func(*manager)

func MaxAttempts(attempts int) Option {
	return func(m *manager) {
		m.maxAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(m *manager) {
		m.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(m *manager) {
		m.maxRetryDelay = delay
	}
}

// RetryLockTimeouts restarts a transaction that gave up waiting for a row
// lock. The holder is usually another delivery of the same callback, which
// finishes within one backoff.
func RetryLockTimeouts() Option {
	return func(m *manager) {
		m.retryLockTimeouts = true
	}
}

func (m *manager) validate() error {
	var errs []error
	if m.maxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("invalid maxAttempts %d: must be > 0", m.maxAttempts))
	}
	if m.baseRetryDelay <= 0 || m.maxRetryDelay <= 0 {
		errs = append(errs, errors.New("invalid retry delays: must be > 0"))
	} else if m.baseRetryDelay > m.maxRetryDelay {
		errs = append(errs, fmt.Errorf("baseRetryDelay %s exceeds maxRetryDelay %s", m.baseRetryDelay, m.maxRetryDelay))
	}
	return errors.Join(errs...)
}

func (m *manager) isRetryable(err error) bool {
	if isRetryableError(err) {
		return true
	}
	return m.retryLockTimeouts && isLockTimeout(err)
}
