package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Adapter, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Adapter{zapLogger: &ZapLogger{
		logger: zap.New(core),
		level:  zap.NewAtomicLevelAt(level),
	}}, logs
}

func TestSecretsAreRedacted(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.Infow("charge request", "merchant_key", "k3y", "card_number", "4355084355084358", "amount", "10.00")
	log.LogAttrs(context.Background(), InfoLevel, "callback",
		String("hash", "c2lnbmF0dXJl"), Any("merchant_salt", "s4lt"), String("status", "success"))
	log.With("paytr_token", "t0k3n").Info("derived")

	entries := logs.All()
	require.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, _redacted, first["merchant_key"])
	assert.Equal(t, _redacted, first["card_number"])
	assert.Equal(t, "10.00", first["amount"])

	second := entries[1].ContextMap()
	assert.Equal(t, _redacted, second["hash"])
	assert.Equal(t, _redacted, second["merchant_salt"])
	assert.Equal(t, "success", second["status"])

	assert.Equal(t, _redacted, entries[2].ContextMap()["paytr_token"])
}

func TestContextFields(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	ctx := log.WithRequestID(context.Background(), "req-1")
	ctx = WithOrderNumber(ctx, "LM0001")

	log.LogAttrs(ctx, InfoLevel, "payment transitioned", OrderNumber("LM0001"), Err(errors.New("boom")))
	log.Ctx(ctx).Info("from ctx logger")

	entries := logs.All()
	require.Len(t, entries, 2)

	var orderFields int
	for _, f := range entries[0].Context {
		if f.Key == "order_number" {
			orderFields++
		}
	}
	assert.Equal(t, 1, orderFields, "order number is not duplicated")

	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "LM0001", fields["order_number"])
	assert.Equal(t, "boom", fields["error"])

	assert.Equal(t, "LM0001", entries[1].ContextMap()["order_number"])
}

func TestWithOrderNumberIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithOrderNumber(ctx, ""))
	assert.Empty(t, OrderNumberFrom(ctx))
}

func TestLevelFiltering(t *testing.T) {
	log, logs := observed(zapcore.WarnLevel)

	log.Log(InfoLevel, "dropped")
	log.Log(ErrorLevel, "kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, WarnLevel, log.Level())
	assert.Equal(t, WarnLevel, log.Ctx(context.Background()).(*Adapter).Level())
}

func TestLogRequestEscalatesServerErrors(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	log.LogRequest(context.Background(), "POST", "/api/v1/payments/charge", 502, 0)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.EqualValues(t, 5, entry.ContextMap()["status_class"])
}

func TestNewAdapterWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		Env: "prod",
		App: config.App{Name: "payment-service", Version: "1.2.3"},
		Logger: config.Logger{
			Level:    "info",
			Filename: filepath.Join(t.TempDir(), "payment.log"),
		},
	}

	log, err := NewAdapter(cfg, Output(&buf))
	require.NoError(t, err)

	log.Infow("started", "cvv", "000")
	_ = log.Sync()

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "payment-service", decoded["service"])
	assert.Equal(t, "1.2.3", decoded["version"])
	assert.Equal(t, _redacted, decoded["cvv"])
}

func TestOptionsValidation(t *testing.T) {
	cfg := &config.Config{Logger: config.Logger{Level: "info"}}

	_, err := NewAdapter(cfg, MaxSize(0))
	require.Error(t, err)

	_, err = NewAdapter(cfg, MaxBackups(-1))
	require.Error(t, err)
}
