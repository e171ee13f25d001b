package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/metric"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/resilience"

	"github.com/valyala/fasthttp"
)

const (
	_operationCharge     = "charge"
	_operationCreateLink = "create_link"
	_operationDeleteLink = "delete_link"

	_paymentTypeCard = "card"
	_linkTypeProduct = "product"
	_expiryLayout    = "2006-01-02 15:04:05"

	_defaultMaxIdleConnDuration = 30 * time.Second
)

// StatusError is a non-2xx answer from the gateway. 5xx and 408 are wrapped
// in resilience.TransientError by the client; other codes are final.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway responded with status %d", e.Code)
}

type Client struct {
	http    *fasthttp.Client
	signer  *Signer
	policy  *resilience.Policy
	log     logger.Logger
	metrics metric.Gateway

	baseURL        string
	chargePath     string
	createLinkPath string
	deleteLinkPath string
	timeout        time.Duration
	testMode       bool
	currency       string
	language       string
	okURL          string
	failURL        string
	callbackURL    string
}

func NewClient(
	cfg *config.Gateway,
	signer *Signer,
	log logger.Logger,
	metrics metric.Gateway,
) (*Client, error) {
	const op = "gateway.NewClient"

	breaker, err := resilience.NewBreaker(
		cfg.BreakerThreshold,
		cfg.BreakerCooldown,
		resilience.OnStateChange(func(from, to resilience.State) {
			metrics.BreakerState(to.String())
			log.Warnw("gateway circuit breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	policy, err := resilience.NewPolicy(
		breaker,
		resilience.MaxAttempts(cfg.MaxAttempts),
		resilience.BaseRetryDelay(cfg.BaseRetryDelay),
		resilience.MaxRetryDelay(cfg.MaxRetryDelay),
		resilience.OnRetry(func(operation string, attempt int, delay time.Duration, err error) {
			metrics.Retry(operation)
			log.Warnw("gateway call failed, retrying",
				"operation", operation,
				"attempt", attempt,
				"retry_after", delay.String(),
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "liwamenu-payment",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: _defaultMaxIdleConnDuration,
		},
		signer:  signer,
		policy:  policy,
		log:     log,
		metrics: metrics,

		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		chargePath:     cfg.ChargePath,
		createLinkPath: cfg.CreateLinkPath,
		deleteLinkPath: cfg.DeleteLinkPath,
		timeout:        cfg.Timeout,
		testMode:       cfg.TestMode,
		currency:       cfg.Currency,
		language:       cfg.Language,
		okURL:          cfg.OkURL,
		failURL:        cfg.FailURL,
		callbackURL:    cfg.CallbackURL,
	}, nil
}

// Charge sends a direct card payment. ok is false with a nil error when the
// gateway declined it; resp.Reason then carries the gateway's text.
func (c *Client) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, bool, error) {
	const op = "gateway.Client.Charge"

	if err := req.Validate(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	basket, err := req.basketJSON()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	fields := map[string]string{
		FieldUserIP:           req.UserIP,
		FieldMerchantOID:      req.OrderNumber,
		FieldEmail:            req.Email,
		FieldPaymentAmount:    formatAmount(req.Amount),
		FieldPaymentType:      _paymentTypeCard,
		FieldInstallmentCount: strconv.Itoa(req.InstallmentCount),
		FieldCurrency:         c.currencyOr(req.Currency),
		FieldTestMode:         c.testModeFlag(),
	}
	token, err := c.signer.Sign(KindCharge, fields)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	form := c.form(fields, token)
	form.Set("cc_owner", req.Card.Owner)
	form.Set("card_number", req.Card.Number)
	form.Set("expiry_month", req.Card.ExpiryMonth)
	form.Set("expiry_year", req.Card.ExpiryYear)
	form.Set("cvv", req.Card.CVV)
	form.Set("user_name", req.CustomerName)
	form.Set("user_address", req.CustomerAddress)
	form.Set("user_phone", req.CustomerPhone)
	form.Set("user_basket", basket)
	form.Set("merchant_ok_url", c.okURL)
	form.Set("merchant_fail_url", c.failURL)
	form.Set("client_lang", c.language)
	form.Set("non_3d", "0")

	body, err := c.post(ctx, _operationCharge, c.chargePath, form)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	resp := &ChargeResponse{Raw: string(body)}
	answer, isJSON := decodeResponse(body)
	if !isJSON {
		resp.RedirectHTML = resp.Raw
		c.metrics.Request(_operationCharge, "success")
		return resp, true, nil
	}

	resp.Status = answer.str("status")
	resp.Token = answer.str("token")
	resp.TransactionID = answer.str("transaction_id")
	if !answer.succeeded() {
		resp.Reason = answer.reason()
		c.metrics.Request(_operationCharge, "rejected")
		return resp, false, nil
	}

	c.metrics.Request(_operationCharge, "success")
	return resp, true, nil
}

func (c *Client) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, bool, error) {
	const op = "gateway.Client.CreateLink"

	if err := req.Validate(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	fields := map[string]string{
		FieldName:           req.Name,
		FieldPrice:          FormatMinor(req.Price),
		FieldCurrency:       c.currencyOr(req.Currency),
		FieldMaxInstallment: strconv.Itoa(req.MaxInstallment),
		FieldLinkType:       _linkTypeProduct,
		FieldLang:           c.language,
		FieldMinCount:       strconv.Itoa(req.MinCount),
	}
	token, err := c.signer.Sign(KindCreateLink, fields)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	form := c.form(fields, token)
	if req.MaxCount > 0 {
		form.Set("max_count", strconv.Itoa(req.MaxCount))
	}
	if !req.ExpiresAt.IsZero() {
		form.Set("expiry_date", req.ExpiresAt.Format(_expiryLayout))
	}
	if req.Email != "" {
		form.Set("email", req.Email)
	}
	form.Set("get_qr", "1")
	form.Set("callback_link", c.callbackURL)
	form.Set("callback_id", req.OrderNumber)

	body, err := c.post(ctx, _operationCreateLink, c.createLinkPath, form)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	resp := &CreateLinkResponse{Raw: string(body)}
	answer, isJSON := decodeResponse(body)
	if !isJSON {
		resp.Reason = "unexpected non-JSON response"
		c.metrics.Request(_operationCreateLink, "rejected")
		return resp, false, nil
	}

	resp.Status = answer.str("status")
	if !answer.succeeded() {
		resp.Reason = answer.reason()
		c.metrics.Request(_operationCreateLink, "rejected")
		return resp, false, nil
	}
	resp.LinkID = answer.str("id")
	resp.URL = answer.str("link")
	resp.QR = answer.str("base64_qr")

	c.metrics.Request(_operationCreateLink, "success")
	return resp, true, nil
}

func (c *Client) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, bool, error) {
	const op = "gateway.Client.DeleteLink"

	if req.LinkID == "" {
		return nil, false, fmt.Errorf("%s: %w: link id is required", op, entity.ErrInvalidData)
	}

	fields := map[string]string{FieldLinkID: req.LinkID}
	token, err := c.signer.Sign(KindDeleteLink, fields)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	body, err := c.post(ctx, _operationDeleteLink, c.deleteLinkPath, c.form(fields, token))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	resp := &DeleteLinkResponse{Raw: string(body)}
	answer, isJSON := decodeResponse(body)
	if !isJSON || !answer.succeeded() {
		resp.Status = answer.str("status")
		resp.Reason = answer.reason()
		if !isJSON {
			resp.Reason = "unexpected non-JSON response"
		}
		c.metrics.Request(_operationDeleteLink, "rejected")
		return resp, false, nil
	}

	resp.Status = answer.str("status")
	c.metrics.Request(_operationDeleteLink, "success")
	return resp, true, nil
}

func (c *Client) form(fields map[string]string, token string) url.Values {
	form := make(url.Values, len(fields)+2)
	for k, v := range fields {
		form.Set(k, v)
	}
	form.Set(FieldMerchantID, c.signer.MerchantID())
	form.Set("paytr_token", token)
	if c.testMode {
		form.Set("debug_on", "1")
	}
	return form
}

// post runs one signed form POST under the retry and breaker policy.
// Exhausted retries and an open circuit are reported as
// entity.ErrGatewayUnavailable.
func (c *Client) post(ctx context.Context, operation, path string, form url.Values) ([]byte, error) {
	log := c.log.Ctx(ctx)
	start := time.Now()

	log.LogAttrs(ctx, logger.DebugLevel, "gateway request",
		logger.String("operation", operation),
		logger.Any("form", Redact(form)),
	)

	var body []byte
	err := c.policy.Do(ctx, operation, func(ctx context.Context) error {
		b, err := c.send(ctx, path, form)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	c.metrics.Duration(operation, time.Since(start))

	if err != nil {
		switch {
		case errors.Is(err, resilience.ErrCircuitOpen):
			c.metrics.Request(operation, "circuit_open")
			return nil, fmt.Errorf("%w: %w", entity.ErrGatewayUnavailable, err)
		case resilience.IsTransient(err):
			c.metrics.Request(operation, "unavailable")
			return nil, fmt.Errorf("%w: %w", entity.ErrGatewayUnavailable, err)
		default:
			c.metrics.Request(operation, "error")
			return nil, err
		}
	}

	log.LogAttrs(ctx, logger.DebugLevel, "gateway response",
		logger.String("operation", operation),
		logger.Duration("elapsed", time.Since(start)),
		logger.Int("bytes", len(body)),
	)
	return body, nil
}

// send performs a single attempt. The attempt is bounded by the client
// timeout and the caller's deadline, and it returns as soon as ctx is done.
func (c *Client) send(ctx context.Context, path string, form url.Values) ([]byte, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	type result struct {
		status int
		body   []byte
		err    error
	}
	done := make(chan result, 1)

	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(c.baseURL + path)
		req.Header.SetMethod(fasthttp.MethodPost)
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBodyString(form.Encode())

		if err := c.http.DoDeadline(req, resp, deadline); err != nil {
			done <- result{err: err}
			return
		}
		done <- result{
			status: resp.StatusCode(),
			body:   append([]byte(nil), resp.Body()...),
		}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, resilience.Transient(fmt.Errorf("gateway transport: %w", r.err))
		}
		switch {
		case r.status >= fasthttp.StatusInternalServerError || r.status == fasthttp.StatusRequestTimeout:
			return nil, resilience.Transient(&StatusError{Code: r.status, Body: string(r.body)})
		case r.status >= fasthttp.StatusBadRequest:
			return nil, &StatusError{Code: r.status, Body: string(r.body)}
		}
		return r.body, nil
	}
}

func (c *Client) currencyOr(currency string) string {
	if currency != "" {
		return currency
	}
	return c.currency
}

func (c *Client) testModeFlag() string {
	if c.testMode {
		return "1"
	}
	return "0"
}
