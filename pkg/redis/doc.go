// Package redis opens the Redis connection used by the shared search cache.
//
//	client, err := redis.Open(ctx, cfg.Cache.Redis, redis.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer redis.Shutdown(client)(context.Background())
//
// Open retries the initial ping with linear backoff. Healthcheck adapts the client to the
// readiness probe in pkg/health.
package redis
