package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/entity"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App      App      `env-prefix:"APP_"`
		Logger   Logger   `env-prefix:"LOGGER_"`
		Postgres Postgres `env-prefix:"DB_"`
		HTTP     HTTP     `env-prefix:"HTTP_"`
		Gateway  Gateway  `env-prefix:"GATEWAY_"`
		Redis    Redis    `env-prefix:"REDIS_"`
		Cache    Cache    `env-prefix:"CACHE_"`
		Kafka    Kafka    `env-prefix:"KAFKA_"`
		DLQ      DLQ      `env-prefix:"DLQ_"`
		Metrics  Metrics  `env-prefix:"METRICS_"`
		Env      string   `                      env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Port    int    `env:"PORT"    validate:"gte=1,lte=65535" env-default:"8080"`
		Name    string `env:"NAME"    validate:"required"`
		Version string `env:"VERSION" validate:"required"`
	}

	Postgres struct {
		Host           string        `env:"HOST"             validate:"required"`
		Port           string        `env:"PORT"             validate:"required,gte=1,lte=65535"`
		Name           string        `env:"NAME"             validate:"required"`
		User           string        `env:"USER"             validate:"required"`
		Password       string        `env:"PASSWORD"         validate:"required"`
		SSLMode        string        `env:"SSL_MODE"         validate:"required"`
		PoolMax        int32         `env:"POOL_MAX"         validate:"min=1,max=100"                             env-default:"20"`
		ConnAttempts   int           `env:"CONN_ATTEMPTS"    validate:"min=1,max=10"                              env-default:"5"`
		BaseRetryDelay time.Duration `env:"BASE_RETRY_DELAY" validate:"gte=10ms,lte=10s"                          env-default:"100ms"`
		MaxRetryDelay  time.Duration `env:"MAX_RETRY_DELAY"  validate:"gte=100ms,lte=30s,gtefield=BaseRetryDelay" env-default:"5s"`
		// LockTimeout stays below the callback handling timeout so a stuck
		// row lock fails the transition instead of the whole delivery.
		LockTimeout      time.Duration `env:"LOCK_TIMEOUT"      validate:"gte=10ms,lte=15s"                         env-default:"5s"`
		StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" validate:"gte=100ms,lte=60s,gtfield=LockTimeout"    env-default:"15s"`
	}

	HTTP struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"8080"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=60s"         env-default:"30s"`
		IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=5m"          env-default:"60s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=30s"         env-default:"10s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Gateway struct {
		MerchantID       string        `env:"MERCHANT_ID"       validate:"required"`
		MerchantKey      string        `env:"MERCHANT_KEY"      validate:"required"`
		MerchantSalt     string        `env:"MERCHANT_SALT"     validate:"required"`
		BaseURL          string        `env:"BASE_URL"          validate:"required,url"                      env-default:"https://www.paytr.com"`
		ChargePath       string        `env:"CHARGE_PATH"       validate:"required,startswith=/"             env-default:"/odeme"`
		CreateLinkPath   string        `env:"CREATE_LINK_PATH"  validate:"required,startswith=/"             env-default:"/odeme/api/link/create"`
		DeleteLinkPath   string        `env:"DELETE_LINK_PATH"  validate:"required,startswith=/"             env-default:"/odeme/api/link/delete"`
		TestMode         bool          `env:"TEST_MODE"                                                      env-default:"true"`
		Currency         string        `env:"CURRENCY"          validate:"required,oneof=TL USD EUR GBP"     env-default:"TL"`
		Language         string        `env:"LANGUAGE"          validate:"required,oneof=tr en"              env-default:"tr"`
		OkURL            string        `env:"OK_URL"            validate:"required,url"`
		FailURL          string        `env:"FAIL_URL"          validate:"required,url"`
		CallbackURL      string        `env:"CALLBACK_URL"      validate:"required,url"`
		MaxInstallment   int           `env:"MAX_INSTALLMENT"   validate:"min=0,max=12"                      env-default:"12"`
		LinkTTL          time.Duration `env:"LINK_TTL"          validate:"gte=1h,lte=8760h"                  env-default:"168h"`
		Timeout          time.Duration `env:"TIMEOUT"           validate:"gte=100ms,lte=60s"                 env-default:"10s"`
		MaxAttempts      int           `env:"MAX_ATTEMPTS"      validate:"min=1,max=10"                      env-default:"4"`
		BaseRetryDelay   time.Duration `env:"BASE_RETRY_DELAY"  validate:"gte=1ms,lte=10s"                   env-default:"200ms"`
		MaxRetryDelay    time.Duration `env:"MAX_RETRY_DELAY"   validate:"gte=1ms,lte=60s,gtefield=BaseRetryDelay" env-default:"2s"`
		BreakerThreshold int           `env:"BREAKER_THRESHOLD" validate:"min=1,max=100"                     env-default:"5"`
		BreakerCooldown  time.Duration `env:"BREAKER_COOLDOWN"  validate:"gte=1s,lte=10m"                    env-default:"30s"`
		CallbackLockTTL  time.Duration `env:"CALLBACK_LOCK_TTL" validate:"gte=1s,lte=5m"                     env-default:"30s"`
	}

	Redis struct {
		Enabled     bool          `env:"ENABLED"                                      env-default:"true"`
		Addr        string        `env:"ADDR"         validate:"required_if=Enabled true" env-default:"localhost:6379"`
		Password    string        `env:"PASSWORD"`
		DB          int           `env:"DB"           validate:"min=0,max=15"         env-default:"0"`
		DialTimeout time.Duration `env:"DIAL_TIMEOUT" validate:"gte=10ms,lte=30s"     env-default:"2s"`
		KeyPrefix   string        `env:"KEY_PREFIX"   validate:"required"             env-default:"liwamenu:payment"`
	}

	Cache struct {
		Capacity        int           `env:"CAPACITY"         validate:"required,min=1,max=1000000"`
		TTL             time.Duration `env:"TTL"              validate:"required,gt=0s,lte=24h"     env-default:"5m"`
		CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" validate:"gt=0s,lte=24h"              env-default:"10s"`
	}

	Kafka struct {
		GroupID      string        `env:"GROUP_ID"      validate:"required"`
		Brokers      []string      `env:"BROKERS"       validate:"min=1,dive,hostname_port" env-separator:","`
		Topic        string        `env:"TOPIC"         validate:"required"                 env-default:"license-fulfillment"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	DLQ struct {
		GroupID       string        `env:"GROUP_ID"        validate:"required"`
		Brokers       []string      `env:"BROKERS"         validate:"min=1,dive,hostname_port" env-separator:","`
		Topic         string        `env:"TOPIC"           validate:"required"`
		BatchSize     int           `env:"BATCH_SIZE"      validate:"required,min=1,max=1000"                    env-default:"100"`
		BatchTimeout  time.Duration `env:"BATCH_TIMEOUT"   validate:"required,gte=1ms,lte=30s"                   env-default:"1s"`
		WriteTimeout  time.Duration `env:"WRITE_TIMEOUT"   validate:"required,gte=1ms,lte=30s"                   env-default:"2s"`
		ReadTimeout   time.Duration `env:"READ_TIMEOUT"    validate:"required,gte=1ms,lte=30s"                   env-default:"2s"`
		MaxRetryCount int           `env:"MAX_RETRY_COUNT" validate:"min=1,max=20"                               env-default:"5"`
		RetryDelay    time.Duration `env:"RETRY_DELAY"     validate:"gte=10ms,lte=30s"                           env-default:"100ms"`
		// MaxErrorLength caps the failure text stored in each parked message.
		MaxErrorLength int `env:"MAX_ERROR_LENGTH" validate:"min=64,max=65536" env-default:"2048"`
	}

	Metrics struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Logger struct {
		Level      string `env:"LEVEL"       env-default:"info"                     validate:"oneof=debug info warn error"`
		Filename   string `env:"FILENAME"    env-default:"./logs/payment-service.log"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"                      validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"                        validate:"min=0,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"                       validate:"min=1,max=365"`
	}
)

func Load() (*Config, error) {
	path := fetchConfigPath()
	if path == "" {
		return nil, entity.ErrConfigPathNotSet
	}
	return LoadPath(path)
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	validate := validator.New()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
	} else if err != nil {
		return nil, fmt.Errorf("%s: checking config file: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: read config: %w", op, err)
	}

	var validationErrors []string
	if err := validate.Struct(&cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s=%v must satisfy '%s'", ve.Field(), ve.Value(), ve.Tag()))
			}
			return nil, fmt.Errorf(
				"%s: config validation: %v", op,
				strings.Join(validationErrors, "; "),
			)
		}
		return nil, fmt.Errorf("%s: config validation: %w", op, err)
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
