package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_argPairs = 2
)

// Adapter is the zap backed Logger used across the service. Values under
// well known secret keys are masked on every path, sugared or typed.
type Adapter struct {
	zapLogger *ZapLogger
}

func NewAdapter(cfg *config.Config, opts ...Option) (*Adapter, error) {
	logger, err := NewZapLogger(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("logger.adapter.NewAdapter: %w", err)
	}
	return &Adapter{
		zapLogger: logger,
	}, nil
}

// NewNop returns a logger that discards everything. Meant for tests.
func NewNop() *Adapter {
	return &Adapter{zapLogger: &ZapLogger{
		logger: zap.NewNop(),
		level:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}}
}

func (a *Adapter) Debug(msg string, args ...any) {
	a.sugar().Debugw(msg, redactArgs(args)...)
}

func (a *Adapter) Info(msg string, args ...any) {
	a.sugar().Infow(msg, redactArgs(args)...)
}

func (a *Adapter) Warn(msg string, args ...any) {
	a.sugar().Warnw(msg, redactArgs(args)...)
}

func (a *Adapter) Error(msg string, args ...any) {
	a.sugar().Errorw(msg, redactArgs(args)...)
}

func (a *Adapter) Debugw(msg string, keysAndValues ...any) {
	a.sugar().Debugw(msg, redactArgs(keysAndValues)...)
}

func (a *Adapter) Infow(msg string, keysAndValues ...any) {
	a.sugar().Infow(msg, redactArgs(keysAndValues)...)
}

func (a *Adapter) Warnw(msg string, keysAndValues ...any) {
	a.sugar().Warnw(msg, redactArgs(keysAndValues)...)
}

func (a *Adapter) Errorw(msg string, keysAndValues ...any) {
	a.sugar().Errorw(msg, redactArgs(keysAndValues)...)
}

func (a *Adapter) Ctx(ctx context.Context) Logger {
	return a.derive(a.zapLogger.NewContextLogger(ctx))
}

func (a *Adapter) With(args ...any) Logger {
	return a.derive(a.zapLogger.Zap().With(toZapFields(args)...))
}

func (a *Adapter) WithGroup(name string) Logger {
	return a.derive(a.zapLogger.Zap().With(zap.Namespace(name)))
}

func (a *Adapter) Log(level Level, msg string, attrs ...Attr) {
	zapLevel := toZapLevel(level)
	if !a.zapLogger.Zap().Core().Enabled(zapLevel) {
		return
	}
	a.zapLogger.Zap().Log(zapLevel, msg, toZapFieldsFromAttrs(attrs, "")...)
}

func (a *Adapter) LogAttrs(ctx context.Context, level Level, msg string, attrs ...Attr) {
	logger := a.zapLogger.NewContextLogger(ctx)
	zapLevel := toZapLevel(level)

	if !logger.Core().Enabled(zapLevel) {
		return
	}

	logger.Log(zapLevel, msg, toZapFieldsFromAttrs(attrs, OrderNumberFrom(ctx))...)
}

func (a *Adapter) Level() Level {
	switch a.zapLogger.level.Level() {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.WarnLevel:
		return WarnLevel
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (a *Adapter) GenerateRequestID() string {
	return a.zapLogger.GenerateRequestID()
}

func (a *Adapter) GetRequestID(ctx context.Context) string {
	return a.zapLogger.GetRequestID(ctx)
}

func (a *Adapter) WithRequestID(ctx context.Context, requestID string) context.Context {
	return a.zapLogger.WithRequestID(ctx, requestID)
}

func (a *Adapter) LogRequest(
	ctx context.Context,
	method, path string,
	status int,
	duration time.Duration,
) {
	a.zapLogger.LogRequest(ctx, method, path, status, duration)
}

func (a *Adapter) Sync() error {
	return a.zapLogger.Sync()
}

func (a *Adapter) sugar() *zap.SugaredLogger {
	return a.zapLogger.Zap().Sugar()
}

func (a *Adapter) derive(logger *zap.Logger) *Adapter {
	return &Adapter{zapLogger: &ZapLogger{logger: logger, level: a.zapLogger.level}}
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func redactArgs(args []any) []any {
	out := make([]any, len(args))
	copy(out, args)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok {
			out[i+1] = redact(key, out[i+1])
		}
	}
	return out
}

func toZapFields(args []any) []zap.Field {
	if len(args)%2 != 0 {
		args = append(args, "<missing>")
	}
	fields := make([]zap.Field, 0, len(args)/_argPairs)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = "UNKNOWN"
		}
		fields = append(fields, zap.Any(key, redact(key, args[i+1])))
	}
	return fields
}

// toZapFieldsFromAttrs drops an order_number attr equal to the one already
// bound from the context.
func toZapFieldsFromAttrs(attrs []Attr, ctxOrderNumber string) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs))
	for _, a := range attrs {
		if ctxOrderNumber != "" && a.Key == string(orderNumberKey) && a.Value == ctxOrderNumber {
			continue
		}
		if err, ok := a.Value.(error); ok && a.Key == "error" {
			fields = append(fields, zap.Error(err))
			continue
		}
		fields = append(fields, zap.Any(a.Key, redact(a.Key, a.Value)))
	}
	return fields
}
