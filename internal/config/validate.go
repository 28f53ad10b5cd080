package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/langdiff/pkg/logger"
)

// ErrInvalid is returned for every failed rule.
var ErrInvalid = errors.New("config: invalid value")

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be in 1..65535 (got %d)", ErrInvalid, c.Server.Port)
	}

	if err := c.Source.validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if th := c.Search.Threshold; th < 0 || th > 1 {
		return fmt.Errorf("%w: search.threshold must be in [0,1] (got %v)", ErrInvalid, th)
	}

	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if c.Reload.Schedule != "" {
		if _, err := ParseSchedule(c.Reload.Schedule); err != nil {
			return fmt.Errorf("%w: reload.schedule: %w", ErrInvalid, err)
		}
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Log.Format != "" && c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("%w: log.format must be json or text (got %q)", ErrInvalid, c.Log.Format)
	}

	return nil
}

func (s *SourceConfig) validate() error {
	switch s.Kind {
	case SourceDir:
		if s.Root == "" {
			return fmt.Errorf("%w: root is required for dir source", ErrInvalid)
		}
	case SourceS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("%w: s3.bucket is required for s3 source", ErrInvalid)
		}
		if s.S3.AccessKey == "" || s.S3.SecretKey == "" {
			return fmt.Errorf("%w: s3 access key and secret key are required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: kind must be dir or s3 (got %q)", ErrInvalid, s.Kind)
	}
	if s.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must be >= 0 (got %d)", ErrInvalid, s.Concurrency)
	}
	return nil
}

func (c *CacheConfig) validate() error {
	if !slices.Contains([]string{CacheNone, CacheMemory, CacheRedis}, c.Driver) {
		return fmt.Errorf("%w: driver must be none, memory or redis (got %q)", ErrInvalid, c.Driver)
	}
	if c.Driver == CacheRedis && c.Redis.URL == "" {
		return fmt.Errorf("%w: redis.url is required for redis driver", ErrInvalid)
	}
	if c.TTL < 0 {
		return fmt.Errorf("%w: ttl must be >= 0 (got %s)", ErrInvalid, c.TTL)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("%w: max_entries must be >= 0 (got %d)", ErrInvalid, c.MaxEntries)
	}
	return nil
}

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a 5-field cron expression or a descriptor like "@every 5m".
func ParseSchedule(spec string) (cron.Schedule, error) {
	return scheduleParser.Parse(spec)
}
