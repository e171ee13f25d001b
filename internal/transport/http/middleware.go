package httpt

import (
	"net/http"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	_headerRequestID = "X-Request-ID"
	_headerUserID    = "X-User-ID"
	_headerUserRole  = "X-User-Role"

	_subjectKey = "subject"

	_slowRequestThreshold = 200 * time.Millisecond
)

func (h *PaymentHandler) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(_headerRequestID)
		if requestID == "" {
			requestID = h.log.GenerateRequestID()
		}
		ctx := h.log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(_headerRequestID, requestID)

		c.Next()
	}
}

func (h *PaymentHandler) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		method := c.Request.Method

		// Route templates keep order numbers out of metric labels.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		h.log.LogAttrs(c.Request.Context(), logger.InfoLevel, "HTTP request",
			logger.String("method", method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", statusCode),
			logger.String("duration", latency.String()),
			logger.String("client_ip", c.ClientIP()),
			logger.String("user_agent", c.Request.UserAgent()),
		)

		h.metrics.Request(method, route, statusCode, latency)

		if latency > _slowRequestThreshold {
			h.metrics.SlowRequest(method, route, statusCode, latency)
		}
	}
}

// authMiddleware reads the subject the upstream API gateway asserted.
func (h *PaymentHandler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader(_headerUserID))
		role := entity.Role(c.GetHeader(_headerUserRole))
		if err != nil || role == "" {
			h.log.LogAttrs(c.Request.Context(), logger.WarnLevel, "request without subject",
				logger.String("path", c.Request.URL.Path),
				logger.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: entity.ErrUnauthenticated.Error()})
			return
		}

		c.Set(_subjectKey, entity.Subject{UserID: userID, Role: role})
		c.Next()
	}
}

func (h *PaymentHandler) authorize(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := subjectOf(c)
		if err := h.authz.Authorize(subject, action); err != nil {
			h.log.LogAttrs(c.Request.Context(), logger.WarnLevel, "access denied",
				logger.String("action", string(action)),
				logger.String("user_id", subject.UserID.String()),
				logger.String("role", string(subject.Role)),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: entity.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func subjectOf(c *gin.Context) entity.Subject {
	subject, _ := c.Get(_subjectKey)
	s, _ := subject.(entity.Subject)
	return s
}
