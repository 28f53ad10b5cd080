package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/langdiff/pkg/logger"
)

// Config holds connection settings. Zero values fall back to the defaults noted per field.
type Config struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string `yaml:"url" env:"REDIS_URL"`

	// PoolSize defaults to 10.
	PoolSize int `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`

	// RetryAttempts defaults to 3.
	RetryAttempts int `yaml:"retry_attempts" env:"REDIS_RETRY_ATTEMPTS" env-default:"3"`

	// RetryInterval is the base backoff step; attempt n waits n*RetryInterval. Defaults to 2s.
	RetryInterval time.Duration `yaml:"retry_interval" env:"REDIS_RETRY_INTERVAL" env-default:"2s"`

	// Timeout applies to dial, read and write. Defaults to 3s.
	Timeout time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

func (c *Config) applyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Second
	}
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger logs failed connection attempts.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ParseConfig validates the URL of cfg and turns it into client options.
func ParseConfig(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	cfg.applyDefaults()

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.DialTimeout = cfg.Timeout
	opts.ReadTimeout = cfg.Timeout
	opts.WriteTimeout = cfg.Timeout

	return opts, nil
}

// Open connects to Redis and pings it, retrying with linear backoff.
func Open(ctx context.Context, cfg Config, opts ...Option) (redis.UniversalClient, error) {
	o := &options{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}

	redisOpts, err := ParseConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	var lastErr error
	for i := range cfg.RetryAttempts {
		client := redis.NewClient(redisOpts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		o.logger.WarnContext(ctx, "redis ping failed",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", cfg.RetryAttempts),
			slog.String("error", lastErr.Error()),
		)

		if i == cfg.RetryAttempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); err != nil {
			return nil, errors.Join(ErrConnectionFailed, err)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Healthcheck pings the client; it plugs into health.Check.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown returns a hook that closes the client.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
