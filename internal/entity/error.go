package entity

import (
	"errors"
	"fmt"
)

var (
	ErrDataNotFound       = errors.New("data not found")
	ErrConflictingData    = errors.New("data conflicts with existing data in unique column")
	ErrInvalidData        = errors.New("invalid data")
	ErrConfigPathNotSet   = errors.New("CONFIG_PATH not set and -config flag not provided")
	ErrBasketMismatch     = errors.New("basket does not match license operation")
	ErrPackageInactive    = errors.New("license package is not active")
	ErrPaymentNotPaid     = errors.New("payment is not in success state")
	ErrPaymentNotWaiting  = errors.New("payment is no longer waiting")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// GatewayRejection is a business failure reported by the gateway, such as a
// declined card. It is final for the call and never retried.
type GatewayRejection struct {
	Code   string
	Reason string
}

func (e *GatewayRejection) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gateway rejected payment: %s", e.Reason)
	}
	return fmt.Sprintf("gateway rejected payment: %s (%s)", e.Reason, e.Code)
}
