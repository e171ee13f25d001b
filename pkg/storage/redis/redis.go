package redis

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/liwayazilim/liwamenu-backend-sub000/internal/config"
	"github.com/liwayazilim/liwamenu-backend-sub000/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

const (
	_defaultConnAttempts   = 5
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 2 * time.Second

	_backoffMultiplier = 2
)

type Redis struct {
	Client goredis.UniversalClient

	connAttempts   int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
}

type Option func(*Redis)

func MaxConnAttempts(attempts int) Option {
	return func(r *Redis) {
		r.connAttempts = attempts
	}
}

func BaseRetryDelay(delay time.Duration) Option {
	return func(r *Redis) {
		r.baseRetryDelay = delay
	}
}

func MaxRetryDelay(delay time.Duration) Option {
	return func(r *Redis) {
		r.maxRetryDelay = delay
	}
}

// NewRedis connects and pings until the server answers or the attempts run
// out.
func NewRedis(cfg *config.Redis, log logger.Logger, opts ...Option) (*Redis, error) {
	const op = "storage.redis.NewRedis"

	r := &Redis{
		connAttempts:   _defaultConnAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("%s: validation: %w", op, err)
	}

	r.Client = goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	var err error
	currentBackoff := r.baseRetryDelay
	for attempt := 1; attempt <= r.connAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
		err = r.Client.Ping(ctx).Err()
		cancel()
		if err == nil {
			return r, nil
		}

		jitter := time.Duration(rand.Int64N(int64(currentBackoff * _backoffMultiplier)))
		if jitter > r.maxRetryDelay {
			jitter = r.maxRetryDelay
		}

		log.Infow("Redis connection attempt failed",
			"operation", op,
			"attempt", attempt,
			"retry_after", jitter.String(),
			"error", err,
		)

		time.Sleep(jitter)
		currentBackoff = min(currentBackoff*_backoffMultiplier, r.maxRetryDelay)
	}

	_ = r.Client.Close()
	return nil, fmt.Errorf("%s: ping: %w", op, err)
}

func (r *Redis) Close() error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

func (r *Redis) validate() error {
	if r.connAttempts <= 0 {
		return errors.New("invalid connAttempts: must be > 0")
	}
	if r.baseRetryDelay <= 0 || r.maxRetryDelay <= 0 {
		return errors.New("invalid retry delay: must be > 0")
	}
	if r.baseRetryDelay > r.maxRetryDelay {
		return errors.New("baseRetryDelay cannot exceed maxRetryDelay")
	}
	return nil
}
