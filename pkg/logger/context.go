package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey   contextKey = "request_id"
	orderNumberKey contextKey = "order_number"

	_httpStatusClassDiv = 100
)

// WithOrderNumber tags ctx so every line logged through LogAttrs or Ctx
// carries the payment order number.
func WithOrderNumber(ctx context.Context, orderNumber string) context.Context {
	if orderNumber == "" {
		return ctx
	}
	return context.WithValue(ctx, orderNumberKey, orderNumber)
}

func OrderNumberFrom(ctx context.Context) string {
	orderNumber, _ := ctx.Value(orderNumberKey).(string)
	return orderNumber
}

func (l *ZapLogger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func (l *ZapLogger) GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func (l *ZapLogger) NewContextLogger(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if requestID := l.GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if orderNumber := OrderNumberFrom(ctx); orderNumber != "" {
		fields = append(fields, zap.String("order_number", orderNumber))
	}
	if len(fields) == 0 {
		return l.logger
	}
	return l.logger.With(fields...)
}

func (l *ZapLogger) LogRequest(
	ctx context.Context,
	method, path string,
	status int,
	duration time.Duration,
) {
	logger := l.NewContextLogger(ctx)

	level := zap.InfoLevel
	if status >= 500 {
		level = zap.ErrorLevel
	}

	logger.Log(level, "request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
		zap.Int("status_class", status/_httpStatusClassDiv),
	)
}

func (l *ZapLogger) GenerateRequestID() string {
	return uuid.New().String()
}
