package resilience

import "errors"

var ErrCircuitOpen = errors.New("circuit breaker is open")

// TransientError marks a failure worth retrying: transport errors and
// upstream 5xx/408 responses. Anything not wrapped in it is permanent.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
