// Command jikan-proxy serves the anime site's page views over HTTP, backed
// by the paced and cached Jikan client.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/jikan-client/internal/config"
	"github.com/Sternrassler/jikan-client/internal/server"
	"github.com/Sternrassler/jikan-client/internal/views"
	"github.com/Sternrassler/jikan-client/pkg/cache"
	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/logging"
	"github.com/Sternrassler/jikan-client/pkg/ratelimit"
)

const (
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 5 * time.Second
	sweepInterval    = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Proxy failed")
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	backend, closeBackend, err := newCacheBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackend()

	jikan, err := newClient(cfg, backend, logger)
	if err != nil {
		return err
	}

	srv := server.New(ctx, views.NewService(jikan), server.Options{
		Addr:         ":" + cfg.Port,
		RenderBudget: cfg.RenderBudget,
		AdClientID:   cfg.AdClientID,
		Throttle:     jikan.Throttle(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCacheBackend connects to Redis when REDIS_URL is set and falls back to
// an in-process cache otherwise.
func newCacheBackend(ctx context.Context, cfg *config.Config) (cache.Backend, func(), error) {
	if !cfg.UsesRedis() {
		mem := cache.NewBoundedMemoryBackend(cfg.CacheMaxEntries)
		sweepCtx, stop := context.WithCancel(ctx)
		go sweep(sweepCtx, mem, sweepInterval)
		return mem, stop, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	return cache.NewRedisBackend(rdb), func() { rdb.Close() }, nil
}

// sweep drops expired entries from the in-process cache until ctx ends.
func sweep(ctx context.Context, mem *cache.MemoryBackend, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mem.Sweep()
		}
	}
}

func newClient(cfg *config.Config, backend cache.Backend, logger zerolog.Logger) (*client.Client, error) {
	clientCfg := client.DefaultConfig()
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.UserAgent = cfg.UserAgent
	clientCfg.Throttle = ratelimit.NewThrottle(cfg.MinInterval, logger.With().Str("component", "throttle").Logger())
	clientCfg.Cache = cache.NewManager(backend, cfg.CacheStaleWindow)
	clientCfg.Retry = cfg.Retry()
	clientCfg.AttemptTimeout = cfg.AttemptTimeout
	clientCfg.ServeStale = cfg.ServeStale

	c, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create jikan client: %w", err)
	}
	return c, nil
}
