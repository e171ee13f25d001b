package dlq

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const (
	_defaultMaxErrorLength = 2048
	_minErrorLength        = 16
	_truncatedSuffix       = "...(truncated)"
)

type Option func(*DLQ)

func MaxAttemptsCount(count int) Option {
	return func(d *DLQ) {
		d.MaxAttempts = count
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(d *DLQ) {
		d.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(d *DLQ) {
		d.maxRetryDelay = delay
	}
}

// MaxErrorLength caps the failure text kept in a parked message's
// metadata. Wrapped fulfillment errors grow with every replay otherwise.
func MaxErrorLength(length int) Option {
	return func(d *DLQ) {
		d.maxErrorLength = length
	}
}

func (d *DLQ) validate() error {
	var errs []error
	if d.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("invalid maxAttempts %d: must be > 0", d.MaxAttempts))
	}
	if d.baseRetryDelay <= 0 || d.maxRetryDelay <= 0 {
		errs = append(errs, errors.New("invalid retry delays: must be > 0"))
	} else if d.baseRetryDelay > d.maxRetryDelay {
		errs = append(errs, fmt.Errorf("baseRetryDelay %s exceeds maxRetryDelay %s", d.baseRetryDelay, d.maxRetryDelay))
	}
	if d.maxErrorLength < _minErrorLength {
		errs = append(errs, fmt.Errorf("invalid maxErrorLength %d: must be >= %d", d.maxErrorLength, _minErrorLength))
	}
	return errors.Join(errs...)
}

// errorText renders cause within maxErrorLength bytes without splitting a
// rune.
func (d *DLQ) errorText(cause error) string {
	if cause == nil {
		return ""
	}
	text := cause.Error()
	if len(text) <= d.maxErrorLength {
		return text
	}

	cut := d.maxErrorLength - len(_truncatedSuffix)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + _truncatedSuffix
}
