package main

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/langdiff/internal/config"
	"github.com/dmitrymomot/langdiff/internal/server"
	"github.com/dmitrymomot/langdiff/internal/workspace"
	"github.com/dmitrymomot/langdiff/pkg/cache"
	"github.com/dmitrymomot/langdiff/pkg/logger"
	"github.com/dmitrymomot/langdiff/pkg/redis"
)

const sentryFlushTimeout = 2 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the comparison over HTTP",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Usage: "listen address (default: server.host:server.port from config)"},
		),
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	applySourceFlags(cmd, cfg)
	if err := validate(cfg); err != nil {
		return err
	}

	log, err := newLogger(cmd.Root().ErrWriter, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	defer logger.Flush(sentryFlushTimeout)

	src, err := openSource(cfg)
	if err != nil {
		return err
	}

	var (
		runOpts    []server.RunOption
		serverOpts = []server.Option{server.WithLogger(log)}
		wsOpts     = []workspace.Option{
			workspace.WithLogger(log),
			workspace.WithPrimary(cfg.Compare.Primary),
			workspace.WithBlankAsMissing(cfg.Compare.BlankAsMissing),
			workspace.WithSkipFailed(cfg.Compare.SkipFailed),
			workspace.WithThreshold(cfg.Search.Threshold),
			workspace.WithConcurrency(cfg.Source.Concurrency),
			workspace.WithFlattenOptions(flattenOptions(cfg)...),
		}
	)

	store, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	if store != nil {
		wsOpts = append(wsOpts, workspace.WithCache(cache.NewLoader(store.cache, cfg.Cache.TTL)))
		runOpts = append(runOpts, server.ShutdownHook(func(context.Context) error { return store.cache.Close() }))
		if store.check != nil {
			serverOpts = append(serverOpts, server.WithCheck("redis", store.check))
			runOpts = append(runOpts, server.ShutdownHook(store.shutdown))
		}
	}

	ws := workspace.New(src, wsOpts...)
	// A failed first load is not fatal: readiness reports it until a reload succeeds.
	if _, err := ws.Reload(ctx); err != nil {
		log.ErrorContext(ctx, "initial load failed", slog.String("error", err.Error()))
	}

	if cfg.Reload.Schedule != "" {
		schedule, err := config.ParseSchedule(cfg.Reload.Schedule)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		sched := workspace.NewScheduler(ws, schedule, cfg.Reload.Timeout)
		runOpts = append(runOpts, server.StartupHook(sched.Start), server.ShutdownHook(sched.Stop))
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	}
	runOpts = append(runOpts,
		server.Address(addr),
		server.Logger(log),
		server.Timeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout),
		server.ShutdownTimeout(cfg.Server.ShutdownTimeout),
	)

	return server.Run(ctx, server.New(ws, serverOpts...), runOpts...)
}

type cacheStore struct {
	cache    cache.Cache
	check    func(context.Context) error
	shutdown func(context.Context) error
}

func openCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (*cacheStore, error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		return &cacheStore{cache: cache.NewMemory(
			cache.WithTTL(cfg.Cache.TTL),
			cache.WithMaxEntries(cfg.Cache.MaxEntries),
		)}, nil
	case config.CacheRedis:
		client, err := redis.Open(ctx, cfg.Cache.Redis, redis.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return &cacheStore{
			cache: cache.NewRedis(client,
				cache.WithPrefix(cfg.Cache.Prefix),
				cache.WithRedisTTL(cfg.Cache.TTL),
			),
			check:    redis.Healthcheck(client),
			shutdown: redis.Shutdown(client),
		}, nil
	}
	return nil, nil
}
