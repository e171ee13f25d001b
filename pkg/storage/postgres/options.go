package postgres

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidOption is wrapped by every pool option that fails validation.
var ErrInvalidOption = errors.New("invalid postgres option")

type Option func(*Postgres)

func MaxPoolSize(size int32) Option {
	return func(p *Postgres) {
		p.maxPoolSize = size
	}
}

func MaxConnAttempts(attempts int) Option {
	return func(p *Postgres) {
		p.connAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(p *Postgres) {
		p.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(p *Postgres) {
		p.maxRetryDelay = delay
	}
}

// LockTimeout bounds how long a session waits for a row lock, such as the
// payment row a callback transition holds. Zero keeps the server default.
func LockTimeout(timeout time.Duration) Option {
	return func(p *Postgres) {
		p.lockTimeout = timeout
	}
}

// StatementTimeout bounds a single statement. Zero keeps the server default.
func StatementTimeout(timeout time.Duration) Option {
	return func(p *Postgres) {
		p.statementTimeout = timeout
	}
}

// runtimeParams are the session settings every pooled connection starts with.
func (p *Postgres) runtimeParams() map[string]string {
	params := map[string]string{
		"application_name": _applicationName,
	}
	if p.lockTimeout > 0 {
		params["lock_timeout"] = strconv.FormatInt(p.lockTimeout.Milliseconds(), 10)
	}
	if p.statementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(p.statementTimeout.Milliseconds(), 10)
	}
	return params
}

// validate reports every bad option at once.
func (p *Postgres) validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidOption}, args...)...))
	}

	if p.maxPoolSize <= 0 {
		invalid("maxPoolSize %d must be > 0", p.maxPoolSize)
	}
	if p.connAttempts <= 0 {
		invalid("connAttempts %d must be > 0", p.connAttempts)
	}
	if p.baseRetryDelay <= 0 || p.maxRetryDelay <= 0 {
		invalid("retry delays must be > 0")
	} else if p.baseRetryDelay > p.maxRetryDelay {
		invalid("baseRetryDelay %s exceeds maxRetryDelay %s", p.baseRetryDelay, p.maxRetryDelay)
	}
	if p.lockTimeout < 0 || p.statementTimeout < 0 {
		invalid("timeouts cannot be negative")
	}
	if p.lockTimeout > 0 && p.lockTimeout < time.Millisecond {
		invalid("lockTimeout %s is below the server's millisecond resolution", p.lockTimeout)
	}
	// a lock wait that outlives the statement would never be reported as a lock timeout
	if p.lockTimeout > 0 && p.statementTimeout > 0 && p.lockTimeout >= p.statementTimeout {
		invalid("lockTimeout %s must be shorter than statementTimeout %s", p.lockTimeout, p.statementTimeout)
	}
	return errors.Join(errs...)
}
