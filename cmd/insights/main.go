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

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-insights/internal/app"
	"github.com/ukydev/fleet-insights/internal/config"
	"github.com/ukydev/fleet-insights/internal/handlers"
	"github.com/ukydev/fleet-insights/internal/logging"
	"github.com/ukydev/fleet-insights/internal/middleware"
	"github.com/ukydev/fleet-insights/internal/report"
	"github.com/ukydev/fleet-insights/internal/route"
	"github.com/ukydev/fleet-insights/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("Fleet insights service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	backend, closeBackend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	rdb, err := app.OpenRedis(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, using in-memory rate limiting")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	sinks, closeSinks := app.Sinks(cfg, rdb, logger)
	defer closeSinks()

	store := telemetry.NewSnapshotStore()
	scheduler := telemetry.NewScheduler(
		telemetry.NewSimulator(backend, cfg.Telemetry.Seed),
		store,
		telemetry.WithInterval(cfg.Telemetry.RefreshInterval),
		telemetry.WithSinks(sinks...),
		telemetry.WithLogger(logger),
	)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	var limiter middleware.RateLimiter = middleware.NewMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if rdb != nil {
		limiter = middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(limiter, cfg.RateLimit.Requests, logger),
	)
	handlers.New(handlers.Deps{
		Snapshots: store,
		Source:    backend,
		Vehicles:  backend,
		Estimator: route.NewEstimator(backend, cfg.Telemetry.Seed),
		Reports:   report.NewBuilder(cfg.Telemetry.Seed),
		Log:       logger,
	}).Register(router)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
