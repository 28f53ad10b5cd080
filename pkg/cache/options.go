package cache

import "time"

const (
	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL = 10 * time.Minute

	// DefaultMaxEntries bounds the in-memory cache.
	DefaultMaxEntries = 1000

	// DefaultPrefix namespaces Redis keys.
	DefaultPrefix = "langdiff:search"
)

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	maxEntries      int
}

// WithTTL sets the default entry lifetime. Default: 10 minutes.
func WithTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.ttl = d
	}
}

// WithCleanupInterval sets how often the janitor drops expired entries.
// Zero disables the janitor; expired entries are then dropped on access.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries bounds the number of entries. Zero means unlimited.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key namespace; keys are stored as "{prefix}:{key}".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithRedisTTL sets the default entry lifetime. Default: 10 minutes.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.ttl = d
	}
}
