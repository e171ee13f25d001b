package httpt

import (
	"context"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/internal/service"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cast"
)

const (
	_defaultContextTimeout = 500 * time.Millisecond
	_gatewayContextTimeout = 25 * time.Second
	_callbackTimeout       = 20 * time.Second
	_readinessTimeout      = 2 * time.Second

	_callbackAck = "OK"
)

// gatewayCallbackHandler always acknowledges with 200 "OK". The gateway
// keeps redelivering anything else, and every outcome is already recorded.
func (h *PaymentHandler) gatewayCallbackHandler(c *gin.Context) {
	const op = "transport.gatewayCallbackHandler"

	// Processing must not stop when the gateway hangs up early.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), _callbackTimeout)
	defer cancel()

	if err := c.Request.ParseForm(); err != nil {
		h.log.LogAttrs(ctx, logger.WarnLevel, "unreadable callback body",
			logger.String("op", op),
			logger.Err(err),
			logger.String("client_ip", c.ClientIP()),
		)
	}

	result := h.handleCallback(ctx, c.Request.PostForm)

	h.log.LogAttrs(ctx, logger.InfoLevel, "gateway callback handled",
		logger.OrderNumber(c.Request.PostForm.Get("merchant_oid")),
		logger.String("result", string(result)),
	)

	c.String(http.StatusOK, _callbackAck)
}

// handleCallback keeps a panic inside the callback service from reaching
// gin's recovery, which would answer 500.
func (h *PaymentHandler) handleCallback(ctx context.Context, form url.Values) (result entity.CallbackResult) {
	defer func() {
		if r := recover(); r != nil {
			h.log.LogAttrs(ctx, logger.ErrorLevel, "panic while handling gateway callback",
				logger.OrderNumber(form.Get("merchant_oid")),
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
			result = entity.CallbackReceived
		}
	}()

	return h.callbacks.HandleCallback(ctx, form)
}

func (h *PaymentHandler) chargeHandler(c *gin.Context) {
	const op = "transport.chargeHandler"

	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBadRequest(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _gatewayContextTimeout)
	defer cancel()

	res, err := h.payments.Charge(ctx, &service.ChargeInput{
		UserID:           subjectOf(c).UserID,
		Operation:        req.Operation,
		NewLicense:       req.NewLicense,
		ExtendLicense:    req.ExtendLicense,
		Card:             req.Card,
		InstallmentCount: req.InstallmentCount,
		UserIP:           c.ClientIP(),
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusCreated, ChargeResponse{Payment: res.Payment, RedirectHTML: res.RedirectHTML})
}

func (h *PaymentHandler) createLinkHandler(c *gin.Context) {
	const op = "transport.createLinkHandler"

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBadRequest(c, op, err)
		return
	}

	subject := subjectOf(c)
	userID := subject.UserID
	if subject.IsAdmin() && req.UserID != uuid.Nil {
		userID = req.UserID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _gatewayContextTimeout)
	defer cancel()

	payment, err := h.payments.CreateLink(ctx, &service.LinkInput{
		UserID:         userID,
		Description:    req.Description,
		Amount:         req.Amount,
		MaxInstallment: req.MaxInstallment,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) deleteLinkHandler(c *gin.Context) {
	const op = "transport.deleteLinkHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), _gatewayContextTimeout)
	defer cancel()

	payment, err := h.payments.DeleteLink(ctx, c.Param("order_number"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) getPaymentHandler(c *gin.Context) {
	const op = "transport.getPaymentHandler"

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	payment, err := h.payments.GetPayment(ctx, c.Param("order_number"))
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	// Someone else's payment looks the same as a missing one.
	if subject := subjectOf(c); !subject.IsAdmin() && payment.UserID != subject.UserID {
		h.handleServiceError(c, entity.ErrDataNotFound, op)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) listUnfulfilledHandler(c *gin.Context) {
	const op = "transport.listUnfulfilledHandler"

	limit, err := cast.ToIntE(c.DefaultQuery("limit", "0"))
	if err != nil {
		h.handleBadRequest(c, op, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), _defaultContextTimeout)
	defer cancel()

	payments, err := h.payments.ListUnfulfilled(ctx, limit)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}
	if payments == nil {
		payments = []*entity.Payment{}
	}

	c.JSON(http.StatusOK, PaymentListResponse{Payments: payments, Count: len(payments)})
}

func (h *PaymentHandler) fulfillHandler(c *gin.Context) {
	const op = "transport.fulfillHandler"

	orderNumber := c.Param("order_number")

	ctx, cancel := context.WithTimeout(c.Request.Context(), _gatewayContextTimeout)
	defer cancel()

	payment, err := h.payments.RetryFulfillment(ctx, orderNumber)
	if err != nil {
		h.handleServiceError(c, err, op)
		return
	}

	h.log.LogAttrs(ctx, logger.InfoLevel, "manual fulfillment completed",
		logger.OrderNumber(orderNumber),
		logger.String("admin_id", subjectOf(c).UserID.String()),
	)

	c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) readyHandler(c *gin.Context) {
	resp := ReadinessResponse{Status: "ready", Checks: make(map[string]string, len(h.readiness))}
	status := http.StatusOK

	for _, rc := range h.readiness {
		ctx, cancel := context.WithTimeout(c.Request.Context(), _readinessTimeout)
		err := rc.check(ctx)
		cancel()

		if err != nil {
			status = http.StatusServiceUnavailable
			resp.Status = "unavailable"
			resp.Checks[rc.name] = err.Error()
			h.log.LogAttrs(c.Request.Context(), logger.WarnLevel, "readiness check failed",
				logger.String("check", rc.name),
				logger.Err(err),
			)
			continue
		}
		resp.Checks[rc.name] = "ok"
	}

	c.JSON(status, resp)
}
