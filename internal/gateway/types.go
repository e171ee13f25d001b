package gateway

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	_statusSuccess = "success"
	_minorUnits    = 2
)

type Card struct {
	Owner       string
	Number      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

type BasketLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

type ChargeRequest struct {
	OrderNumber      string
	UserIP           string
	Email            string
	Amount           decimal.Decimal
	Currency         string
	InstallmentCount int
	Card             Card
	CustomerName     string
	CustomerAddress  string
	CustomerPhone    string
	Lines            []BasketLine
}

// Validate checks the fields the gateway rejects a charge without.
func (r *ChargeRequest) Validate() error {
	switch {
	case r.OrderNumber == "":
		return fmt.Errorf("%w: order number is required", entity.ErrInvalidData)
	case r.UserIP == "":
		return fmt.Errorf("%w: user ip is required", entity.ErrInvalidData)
	case r.Email == "":
		return fmt.Errorf("%w: email is required", entity.ErrInvalidData)
	case !r.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", entity.ErrInvalidData)
	case r.Card.Number == "" || r.Card.CVV == "":
		return fmt.Errorf("%w: card number and cvv are required", entity.ErrInvalidData)
	case len(r.Lines) == 0:
		return fmt.Errorf("%w: basket is empty", entity.ErrInvalidData)
	}
	return nil
}

// basketJSON renders lines as [[name, price, quantity], ...].
func (r *ChargeRequest) basketJSON() (string, error) {
	rows := make([][]any, 0, len(r.Lines))
	for _, line := range r.Lines {
		rows = append(rows, []any{line.Name, line.Price.StringFixed(_minorUnits), line.Quantity})
	}
	out, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("marshal basket: %w", err)
	}
	return string(out), nil
}

type ChargeResponse struct {
	Status        string
	Reason        string
	Token         string
	TransactionID string
	// RedirectHTML holds a non-JSON answer, the 3-D Secure page to relay.
	RedirectHTML string
	Raw          string
}

type CreateLinkRequest struct {
	OrderNumber    string
	Name           string
	Price          decimal.Decimal
	Currency       string
	MaxInstallment int
	MinCount       int
	MaxCount       int
	ExpiresAt      time.Time
	Email          string
}

func (r *CreateLinkRequest) Validate() error {
	switch {
	case r.OrderNumber == "":
		return fmt.Errorf("%w: order number is required", entity.ErrInvalidData)
	case r.Name == "":
		return fmt.Errorf("%w: link name is required", entity.ErrInvalidData)
	case !r.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", entity.ErrInvalidData)
	case r.MinCount <= 0:
		return fmt.Errorf("%w: min count must be positive", entity.ErrInvalidData)
	case r.MaxCount != 0 && r.MaxCount < r.MinCount:
		return fmt.Errorf("%w: max count below min count", entity.ErrInvalidData)
	}
	return nil
}

type CreateLinkResponse struct {
	Status string
	Reason string
	LinkID string
	URL    string
	QR     string
	Raw    string
}

type DeleteLinkRequest struct {
	LinkID string
}

type DeleteLinkResponse struct {
	Status string
	Reason string
	Raw    string
}

// Callback is the form the gateway posts when a payment settles.
type Callback struct {
	MerchantID       string
	OrderNumber      string
	Status           string
	TotalAmount      string
	FailedReasonCode string
	FailedReasonMsg  string
	PaymentType      string
	TestMode         string
	Hash             string
}

func ParseCallback(form url.Values) (*Callback, error) {
	const op = "gateway.ParseCallback"

	cb := &Callback{
		MerchantID:       strings.TrimSpace(form.Get("merchant_id")),
		OrderNumber:      strings.TrimSpace(form.Get("merchant_oid")),
		Status:           strings.TrimSpace(form.Get("status")),
		TotalAmount:      strings.TrimSpace(form.Get("total_amount")),
		FailedReasonCode: form.Get("failed_reason_code"),
		FailedReasonMsg:  form.Get("failed_reason_msg"),
		PaymentType:      form.Get("payment_type"),
		TestMode:         form.Get("test_mode"),
		Hash:             form.Get("hash"),
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"merchant_id", cb.MerchantID},
		{"merchant_oid", cb.OrderNumber},
		{"status", cb.Status},
		{"total_amount", cb.TotalAmount},
		{"hash", cb.Hash},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w: missing %s", op, entity.ErrInvalidData, strings.Join(missing, ", "))
	}
	return cb, nil
}

// Form renders the callback the way the gateway posts it.
func (c *Callback) Form() url.Values {
	form := url.Values{}
	for key, value := range map[string]string{
		"merchant_id":        c.MerchantID,
		"merchant_oid":       c.OrderNumber,
		"status":             c.Status,
		"total_amount":       c.TotalAmount,
		"failed_reason_code": c.FailedReasonCode,
		"failed_reason_msg":  c.FailedReasonMsg,
		"payment_type":       c.PaymentType,
		"test_mode":          c.TestMode,
		"hash":               c.Hash,
	} {
		if value != "" {
			form.Set(key, value)
		}
	}
	return form
}

// SignatureFields returns the values the callback signature covers.
func (c *Callback) SignatureFields() map[string]string {
	return map[string]string{
		FieldMerchantOID: c.OrderNumber,
		FieldStatus:      c.Status,
		FieldTotalAmount: c.TotalAmount,
	}
}

// Amount converts total_amount, reported in minor units, into a decimal.
func (c *Callback) Amount() decimal.Decimal {
	minor, err := decimal.NewFromString(c.TotalAmount)
	if err != nil {
		return decimal.Zero
	}
	return minor.Shift(-_minorUnits)
}

func (c *Callback) Report() entity.GatewayReport {
	report := entity.GatewayReport{
		Status:      entity.PaymentStatusFromGateway(c.Status),
		Amount:      c.Amount(),
		PaymentType: c.PaymentType,
	}
	if report.Status != entity.PaymentStatusSuccess {
		report.ErrorCode = c.FailedReasonCode
		report.ErrorMessage = c.FailedReasonMsg
	}
	return report
}

// responseFields decodes a JSON object answer. The gateway is loose about
// types, so values are read through cast.
type responseFields map[string]any

func decodeResponse(body []byte) (responseFields, bool) {
	var fields responseFields
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func (f responseFields) str(key string) string {
	return cast.ToString(f[key])
}

func (f responseFields) succeeded() bool {
	return strings.EqualFold(f.str("status"), _statusSuccess)
}

// reason picks whichever failure text the gateway filled in.
func (f responseFields) reason() string {
	for _, key := range []string{"reason", "err_msg", "error", "message"} {
		if v := f.str(key); v != "" {
			return v
		}
	}
	return ""
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(_minorUnits)
}

// FormatMinor renders amount in minor units, the way link prices and
// callback totals travel.
func FormatMinor(amount decimal.Decimal) string {
	return amount.Shift(_minorUnits).Round(0).String()
}
