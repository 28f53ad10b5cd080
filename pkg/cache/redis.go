package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores hits as JSON in Redis, so several server instances share search results.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// NewRedis creates a Redis-backed cache. The client lifecycle stays with the caller
// (see pkg/redis).
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := &redisOptions{prefix: DefaultPrefix, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

func (r *Redis) key(k Key) string {
	return r.opts.prefix + ":" + k.String()
}

// Get returns ErrNotFound when the key does not exist.
func (r *Redis) Get(ctx context.Context, key Key) ([]Hit, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var hits []Hit
	if err := json.Unmarshal(data, &hits); err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return hits, nil
}

// Set stores hits with the given TTL.
func (r *Redis) Set(ctx context.Context, key Key, hits []Hit, ttl time.Duration) error {
	if hits == nil {
		hits = []Hit{}
	}
	data, err := json.Marshal(hits)
	if err != nil {
		return errors.Join(ErrMarshal, err)
	}

	if ttl == 0 {
		ttl = r.opts.ttl
	}
	// Redis treats 0 as no expiration.
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

// Clear removes every key under the prefix with SCAN, which does not block the server.
func (r *Redis) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.opts.prefix+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close is a no-op; the client is closed by its owner.
func (r *Redis) Close() error { return nil }

var _ Cache = (*Redis)(nil)
