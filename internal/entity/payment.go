package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	PaymentStatus     string
	PaymentMethod     string
	LicenseOperation  string
	FulfillmentStatus string
)

const (
	PaymentStatusWaiting   PaymentStatus = "waiting"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodLink PaymentMethod = "link"
)

const (
	OperationNewLicense    LicenseOperation = "new_license"
	OperationExtendLicense LicenseOperation = "extend_license"
	OperationLink          LicenseOperation = "link"
)

const (
	FulfillmentNone      FulfillmentStatus = "none"
	FulfillmentPending   FulfillmentStatus = "pending"
	FulfillmentFulfilled FulfillmentStatus = "fulfilled"
	FulfillmentFailed    FulfillmentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusWaiting, PaymentStatusSuccess, PaymentStatusFailed,
		PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s.Valid() && s != PaymentStatusWaiting
}

// CanTransitionTo reports whether the ledger accepts moving from s to next.
// Only waiting payments move, and only into a terminal state.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return s == PaymentStatusWaiting && next.IsTerminal()
}

// PaymentStatusFromGateway maps the status string reported in a callback.
func PaymentStatusFromGateway(status string) PaymentStatus {
	switch status {
	case "success":
		return PaymentStatusSuccess
	case "failed":
		return PaymentStatusFailed
	default:
		return PaymentStatusCancelled
	}
}

func (o LicenseOperation) Valid() bool {
	switch o {
	case OperationNewLicense, OperationExtendLicense, OperationLink:
		return true
	}
	return false
}

// ProvisionsLicense is true for operations with a license side effect.
func (o LicenseOperation) ProvisionsLicense() bool {
	return o == OperationNewLicense || o == OperationExtendLicense
}

type Payment struct {
	ID          uuid.UUID        `json:"id"`
	OrderNumber string           `json:"orderNumber"`
	UserID      uuid.UUID        `json:"userId"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	Method      PaymentMethod    `json:"method"`
	Status      PaymentStatus    `json:"status"`
	Operation   LicenseOperation `json:"operation"`
	Basket      json.RawMessage  `json:"basket"`

	PayerIsDealer bool `json:"payerIsDealer"`

	GatewayToken  string `json:"-"`
	TransactionID string `json:"transactionId,omitempty"`
	LinkID        string `json:"linkId,omitempty"`
	LinkURL       string `json:"linkUrl,omitempty"`

	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	CustomerIP      string `json:"-"`

	InstallmentCount int             `json:"installmentCount"`
	PaymentType      string          `json:"paymentType,omitempty"`
	ReportedAmount   decimal.Decimal `json:"reportedAmount"`
	ErrorCode        string          `json:"errorCode,omitempty"`
	ErrorMessage     string          `json:"errorMessage,omitempty"`

	FulfillmentStatus   FulfillmentStatus `json:"fulfillmentStatus"`
	FulfillmentError    string            `json:"fulfillmentError,omitempty"`
	FulfillmentAttempts int               `json:"fulfillmentAttempts"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	FulfilledAt *time.Time `json:"fulfilledAt,omitempty"`
}

// GatewayReport carries what the gateway said about the final outcome.
type GatewayReport struct {
	Status       PaymentStatus
	Amount       decimal.Decimal
	PaymentType  string
	ErrorCode    string
	ErrorMessage string
}

// Transition applies report to a waiting payment. It returns false and leaves
// the payment untouched when the current status does not allow the move.
func (p *Payment) Transition(report GatewayReport, at time.Time) bool {
	if !p.Status.CanTransitionTo(report.Status) {
		return false
	}

	p.Status = report.Status
	p.UpdatedAt = at
	if !report.Amount.IsZero() {
		p.ReportedAmount = report.Amount
	}
	if report.PaymentType != "" {
		p.PaymentType = report.PaymentType
	}
	if report.ErrorCode != "" || report.ErrorMessage != "" {
		p.ErrorCode = report.ErrorCode
		p.ErrorMessage = report.ErrorMessage
	}

	if report.Status == PaymentStatusSuccess {
		paidAt := at
		p.PaidAt = &paidAt
		if p.Operation.ProvisionsLicense() {
			p.FulfillmentStatus = FulfillmentPending
		} else {
			p.FulfillmentStatus = FulfillmentFulfilled
			p.FulfilledAt = &paidAt
		}
	}
	return true
}

func (p *Payment) MarkFulfilled(at time.Time) {
	p.FulfillmentStatus = FulfillmentFulfilled
	p.FulfillmentError = ""
	p.FulfillmentAttempts++
	p.FulfilledAt = &at
	p.UpdatedAt = at
}

func (p *Payment) MarkFulfillmentFailed(cause error, at time.Time) {
	p.FulfillmentStatus = FulfillmentFailed
	p.FulfillmentError = cause.Error()
	p.FulfillmentAttempts++
	p.UpdatedAt = at
}

// AwaitsFulfillment is true for paid payments whose license side effect has
// not been applied yet.
func (p *Payment) AwaitsFulfillment() bool {
	return p.Status == PaymentStatusSuccess &&
		(p.FulfillmentStatus == FulfillmentPending || p.FulfillmentStatus == FulfillmentFailed)
}
