package httpt

import (
	"context"
	"errors"
	"net/http"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/resilience"

	"github.com/gin-gonic/gin"
)

func (h *PaymentHandler) handleServiceError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()
	log := h.log.Ctx(ctx)

	var rejection *entity.GatewayRejection

	switch {
	case errors.As(err, &rejection):
		log.LogAttrs(ctx, logger.InfoLevel, "payment rejected by gateway",
			logger.String("op", op),
			logger.String("reason", rejection.Reason),
		)
		c.JSON(http.StatusPaymentRequired, ErrorResponse{Error: "Payment was rejected", Reason: rejection.Reason})
	case errors.Is(err, entity.ErrInvalidData):
		log.LogAttrs(ctx, logger.WarnLevel, "invalid request",
			logger.String("op", op),
			logger.Err(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid payment data", Reason: err.Error()})
	case errors.Is(err, entity.ErrPackageInactive):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "License package is not on sale"})
	case errors.Is(err, entity.ErrDataNotFound):
		log.LogAttrs(ctx, logger.WarnLevel, "payment data not found",
			logger.String("op", op),
			logger.OrderNumber(c.Param("order_number")),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	case errors.Is(err, entity.ErrPaymentNotWaiting),
		errors.Is(err, entity.ErrPaymentNotPaid),
		errors.Is(err, entity.ErrConflictingData):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Payment is not in a state that allows this", Reason: err.Error()})
	case errors.Is(err, entity.ErrBasketMismatch):
		log.LogAttrs(ctx, logger.ErrorLevel, "fulfillment needs manual reconciliation",
			logger.String("op", op),
			logger.Err(err),
		)
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Basket does not match the license", Reason: err.Error()})
	case errors.Is(err, resilience.ErrCircuitOpen):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Payment gateway is temporarily unavailable"})
	case errors.Is(err, entity.ErrGatewayUnavailable):
		log.LogAttrs(ctx, logger.ErrorLevel, "payment gateway unavailable",
			logger.String("op", op),
			logger.Err(err),
		)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Payment gateway did not answer"})
	case errors.Is(err, context.DeadlineExceeded):
		log.LogAttrs(ctx, logger.WarnLevel, "request timeout",
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Request timed out"})
	default:
		log.LogAttrs(ctx, logger.ErrorLevel, "internal server error",
			logger.String("op", op),
			logger.Err(err),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal service error"})
	}
}

func (h *PaymentHandler) handleBadRequest(c *gin.Context, op string, err error) {
	h.log.Ctx(c.Request.Context()).LogAttrs(c.Request.Context(), logger.WarnLevel, "malformed request body",
		logger.String("op", op),
		logger.Err(err),
		logger.String("remote_addr", c.ClientIP()),
	)

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Malformed request", Reason: err.Error()})
}
