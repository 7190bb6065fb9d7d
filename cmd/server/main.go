package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/travel-search/internal/api"
	"github.com/neexbeast/travel-search/internal/config"
	"github.com/neexbeast/travel-search/internal/controller"
	"github.com/neexbeast/travel-search/internal/inflight"
	"github.com/neexbeast/travel-search/internal/render"
	"github.com/neexbeast/travel-search/internal/storage"
	"github.com/neexbeast/travel-search/internal/travel"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	routerCfg := api.RouterConfig{
		AdminToken:         cfg.AdminToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	// Optional PostgreSQL search log.
	var searchLog api.SearchLog
	if cfg.DatabaseURL != "" {
		pool, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		migrations, err := storage.Migrations(cfg.MigrationsDir)
		if err != nil {
			return fmt.Errorf("loading migrations: %w", err)
		}
		if err := storage.RunMigrations(ctx, pool, migrations); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")

		searchLog = storage.NewRepository(pool)
		routerCfg.DB = pool
	} else {
		log.Info("DATABASE_URL not set, search log disabled")
	}

	// In-flight guard: Redis when configured, process-local otherwise.
	var guard controller.Guard
	if cfg.RedisURL != "" {
		redisClient, err := inflight.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		redisGuard := inflight.NewRedisGuard(redisClient, cfg.GuardTTL)
		guard = redisGuard
		routerCfg.Redis = redisGuard
	} else {
		log.Info("REDIS_URL not set, using in-memory in-flight guard")
		guard = inflight.NewMemoryGuard()
	}

	// Wire dependencies.
	templates, err := render.New()
	if err != nil {
		return err
	}
	static, err := render.Static()
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}
	routerCfg.Static = static

	searcher := travel.NewSearcher(travel.NewMockService(cfg.MockDelay))
	sessions := controller.NewSessions(func(key string) *controller.Controller {
		return controller.New(key, searcher, templates, guard, log)
	})
	handlers := api.NewHandlers(sessions, searcher, templates, searchLog, log)

	router := api.NewRouter(handlers, routerCfg, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + 2*cfg.MockDelay,
		IdleTimeout:  60 * time.Second,
	}

	// Drop idle sessions in the background.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, sessions, cfg.SessionIdleTimeout, log)

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting", "port", cfg.Port, "mock_delay", cfg.MockDelay.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// sweepSessions evicts sessions idle longer than maxIdle until ctx is done.
func sweepSessions(ctx context.Context, sessions *controller.Sessions, maxIdle time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(maxIdle); n > 0 {
				log.Info("idle sessions evicted", "count", n, "remaining", sessions.Len())
			}
		}
	}
}
