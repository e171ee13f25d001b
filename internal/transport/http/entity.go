package httpt

import (
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/basket"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// ChargeRequest is the checkout body. The payer is taken from the
// authenticated subject, never from the body.
type ChargeRequest struct {
	Operation        entity.LicenseOperation `json:"operation"        binding:"required"`
	NewLicense       *basket.NewLicense      `json:"newLicense"`
	ExtendLicense    *basket.ExtendLicense   `json:"extendLicense"`
	Card             service.Card            `json:"card"`
	InstallmentCount int                     `json:"installmentCount"`
}

type ChargeResponse struct {
	Payment *entity.Payment `json:"payment"`
	// RedirectHTML is set when the payer has to finish 3-D Secure.
	RedirectHTML string `json:"redirectHtml,omitempty"`
}

type CreateLinkRequest struct {
	// UserID lets an admin bill another account. Ignored for other roles.
	UserID         uuid.UUID       `json:"userId"`
	Description    string          `json:"description"    binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	MaxInstallment int             `json:"maxInstallment"`
	ExpiresAt      time.Time       `json:"expiresAt"`
}

type PaymentListResponse struct {
	Payments []*entity.Payment `json:"payments"`
	Count    int               `json:"count"`
}

type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
