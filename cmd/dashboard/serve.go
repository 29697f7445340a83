package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"launchdash/internal/dashboard"
	"launchdash/pkg/cache"
	"launchdash/pkg/config"
	"launchdash/pkg/figure"
	"launchdash/pkg/logger"
	"launchdash/pkg/render"
	"launchdash/pkg/retry"
	"launchdash/pkg/server"
	"launchdash/pkg/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, ds, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer l.Sync()

	l.Info("dashboard initializing", zap.String("env", cfg.Environment))

	// 4. Initialize chart cache
	chartCache, closeCache, err := newCache(ctx, cfg, l)
	if err != nil {
		l.Error("failed to initialize chart cache", err, zap.String("backend", cfg.Cache.Backend))
		return err
	}
	defer closeCache()

	// 5. Create dashboard service
	svc := dashboard.NewService(
		l,
		ds,
		dashboard.Config{
			PieMode: figure.PieMode(cfg.Dashboard.PieMode),
			Slider: dashboard.SliderBounds{
				Min:  cfg.Slider.Min,
				Max:  cfg.Slider.Max,
				Step: cfg.Slider.Step,
			},
		},
		render.New(cfg.Dashboard.ChartWidth, cfg.Dashboard.ChartHeight),
		chartCache,
	)

	// 6. Warm chart cache
	if cfg.Cache.WarmWorkers > 0 && cfg.Cache.Backend != "none" {
		if err := warmCache(ctx, svc, cfg.Cache.WarmWorkers, l); err != nil {
			l.Warn("chart warm-up incomplete", zap.Error(err))
		}
	}

	// 7. Mount routes
	srv := server.New(server.Config{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, l)
	svc.Register(srv.Router())
	srv.SetReady(true)

	// 8. Serve until signalled
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		l.Info("dashboard stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Error("dashboard failed", err)
		return err
	}
	return nil
}

func warmCache(ctx context.Context, svc *dashboard.Service, workers int, l *logger.Logger) error {
	pool := worker.NewPool(l, workers)
	pool.Start(ctx)

	start := time.Now()
	if err := svc.Warm(ctx, pool); err != nil {
		pool.Shutdown(ctx)
		return err
	}
	if err := pool.Shutdown(ctx); err != nil {
		return err
	}

	l.Info("chart cache warmed",
		zap.Duration("duration", time.Since(start)),
		zap.Int64("failed", pool.Failed()))
	return nil
}

// newCache builds the configured chart cache and a matching close func
func newCache(ctx context.Context, cfg *config.AppConfig, l *logger.Logger) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NopCache{}, func() {}, nil
	case "memory":
		return cache.NewMemoryCache(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		opts := retry.DefaultOptions()
		opts.OnRetry = func(attempt int, err error, wait time.Duration) {
			l.Warn("redis not reachable, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}
		err := retry.Do(ctx, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}, opts)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}

		l.Info("using redis chart cache", zap.String("addr", cfg.Redis.Addr))
		return cache.NewRedisCache(client, cfg.Redis.KeyPrefix, cfg.Cache.TTL), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
