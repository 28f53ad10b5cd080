//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langdiff/pkg/cache"
	"github.com/dmitrymomot/langdiff/pkg/redis"
)

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	client, err := redis.Open(context.Background(), redis.Config{URL: url, RetryAttempts: 1})
	require.NoError(t, err, "failed to connect to Redis")

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewRedis(newTestRedisClient(t), cache.WithPrefix("langdiff-test:"+t.Name()))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	_, err := c.Get(ctx, key("missing"))
	require.ErrorIs(t, err, cache.ErrNotFound)

	hits := []cache.Hit{{Key: "greeting", Score: 0.125}}
	require.NoError(t, c.Set(ctx, key("q"), hits, time.Minute))

	got, err := c.Get(ctx, key("q"))
	require.NoError(t, err)
	require.Equal(t, hits, got)

	require.NoError(t, c.Set(ctx, key("empty"), nil, time.Minute))
	got, err = c.Get(ctx, key("empty"))
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, key("q"))
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestRedisLoader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewRedis(newTestRedisClient(t), cache.WithPrefix("langdiff-test:"+t.Name()), cache.WithRedisTTL(time.Minute))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	l := cache.NewLoader(c, 0)
	calls := 0
	search := func(context.Context) ([]cache.Hit, error) {
		calls++
		return []cache.Hit{{Key: "k"}}, nil
	}

	_, cached, err := l.GetOrSearch(ctx, key("q"), search)
	require.NoError(t, err)
	require.False(t, cached)

	_, cached, err = l.GetOrSearch(ctx, key("q"), search)
	require.NoError(t, err)
	require.True(t, cached)
	require.Equal(t, 1, calls)
}
