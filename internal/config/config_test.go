package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseEnv = map[string]string{
	"APP_NAME":              "payment-service",
	"APP_VERSION":           "test",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_NAME":               "liwamenu",
	"DB_USER":               "liwamenu",
	"DB_PASSWORD":           "secret",
	"DB_SSL_MODE":           "disable",
	"GATEWAY_MERCHANT_ID":   "100000",
	"GATEWAY_MERCHANT_KEY":  "key",
	"GATEWAY_MERCHANT_SALT": "salt",
	"GATEWAY_OK_URL":        "http://localhost/ok",
	"GATEWAY_FAIL_URL":      "http://localhost/fail",
	"GATEWAY_CALLBACK_URL":  "http://localhost/callback/gateway",
	"CACHE_CAPACITY":        "100",
	"KAFKA_GROUP_ID":        "payment-service",
	"KAFKA_BROKERS":         "localhost:9092,localhost:9093",
	"DLQ_GROUP_ID":          "payment-service-dlq",
	"DLQ_BROKERS":           "localhost:9092",
	"DLQ_TOPIC":             "license-fulfillment-dlq",
}

// writeEnvFile writes vars to a .env file. The loader exports file values
// into the process environment, so every key is registered with t.Setenv
// to be restored after the test.
func writeEnvFile(t *testing.T, overrides map[string]string) string {
	t.Helper()

	vars := make(map[string]string, len(baseEnv))
	for k, v := range baseEnv {
		vars[k] = v
	}
	for k, v := range overrides {
		vars[k] = v
	}

	var b strings.Builder
	for k, v := range vars {
		t.Setenv(k, v)
		b.WriteString(k + "=" + v + "\n")
	}

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestLoadPath_Defaults(t *testing.T) {
	cfg, err := config.LoadPath(writeEnvFile(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Kafka.Brokers)
	assert.Equal(t, "license-fulfillment", cfg.Kafka.Topic)
	assert.Equal(t, "TL", cfg.Gateway.Currency)
	assert.Equal(t, 12, cfg.Gateway.MaxInstallment)
	assert.Equal(t, 168*time.Hour, cfg.Gateway.LinkTTL)
	assert.True(t, cfg.Gateway.TestMode)
	assert.Equal(t, 30*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "liwamenu:payment", cfg.Redis.KeyPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Second, cfg.Postgres.LockTimeout)
	assert.Equal(t, 15*time.Second, cfg.Postgres.StatementTimeout)
	assert.Equal(t, 2048, cfg.DLQ.MaxErrorLength)
}

func TestLoadPath_MissingFile(t *testing.T) {
	_, err := config.LoadPath(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadPath_Validation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		field     string
	}{
		{
			name:      "installments above gateway maximum",
			overrides: map[string]string{"GATEWAY_MAX_INSTALLMENT": "24"},
			field:     "MaxInstallment",
		},
		{
			name:      "unknown currency",
			overrides: map[string]string{"GATEWAY_CURRENCY": "JPY"},
			field:     "Currency",
		},
		{
			name:      "callback url is not a url",
			overrides: map[string]string{"GATEWAY_CALLBACK_URL": "callback"},
			field:     "CallbackURL",
		},
		{
			name: "retry ceiling below base delay",
			overrides: map[string]string{
				"GATEWAY_BASE_RETRY_DELAY": "2s",
				"GATEWAY_MAX_RETRY_DELAY":  "1s",
			},
			field: "MaxRetryDelay",
		},
		{
			name: "lock wait outlives the statement",
			overrides: map[string]string{
				"DB_LOCK_TIMEOUT":      "10s",
				"DB_STATEMENT_TIMEOUT": "5s",
			},
			field: "StatementTimeout",
		},
		{
			name:      "unknown environment",
			overrides: map[string]string{"ENV": "qa"},
			field:     "Env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadPath(writeEnvFile(t, tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
