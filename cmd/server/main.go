package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dukerupert/thaiaddress/internal"
	"github.com/dukerupert/thaiaddress/internal/address"
	"github.com/dukerupert/thaiaddress/internal/handler"
	"github.com/dukerupert/thaiaddress/internal/handler/api"
	"github.com/dukerupert/thaiaddress/internal/handler/form"
	"github.com/dukerupert/thaiaddress/internal/middleware"
	"github.com/dukerupert/thaiaddress/internal/router"
	"github.com/dukerupert/thaiaddress/internal/routes"
	"github.com/dukerupert/thaiaddress/internal/selector"
	"github.com/dukerupert/thaiaddress/internal/storage"
	"github.com/dukerupert/thaiaddress/internal/telemetry"
	"github.com/dukerupert/thaiaddress/internal/worker"
	"github.com/dukerupert/thaiaddress/web"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Metrics
	metrics := middleware.NewMetrics("thaiaddress", nil)
	datasetMetrics := telemetry.NewDatasetMetrics("thaiaddress", metrics.Registry())

	// Dataset storage
	logger.Info("Initializing dataset storage...", "provider", cfg.Storage.Provider)
	blobs, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	format, err := address.ParseFormat(cfg.Dataset.Format)
	if err != nil {
		return fmt.Errorf("invalid dataset format: %w", err)
	}
	store := address.NewStore(
		address.WithLogger(logger),
		address.WithFormat(format),
	)

	// A failed initial load is not fatal: /health stays 503 and the
	// watcher, if enabled, retries on the next write.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Dataset.LoadTimeout)
	err = store.Load(loadCtx, address.StorageSource(blobs, cfg.Dataset.Key))
	cancelLoad()
	datasetMetrics.Observe(store.Stats(), err)
	if err != nil {
		logger.Error("Initial address dataset load failed", "key", cfg.Dataset.Key, "error", err)
	}

	if cfg.Dataset.Watch {
		local, ok := blobs.(*storage.LocalStorage)
		if !ok {
			return fmt.Errorf("DATASET_WATCH requires local storage")
		}
		path := local.Path(cfg.Dataset.Key)
		go func() {
			logger.Info("Watching address dataset", "path", filepath.Clean(path))
			notify := func(err error) { datasetMetrics.Observe(store.Stats(), err) }
			if err := address.Watch(ctx, store, path, logger, notify); err != nil {
				logger.Error("Dataset watcher stopped", "error", err)
				telemetry.CaptureError(err)
			}
		}()
	}

	if cfg.Dataset.RefreshInterval > 0 {
		refresher := worker.NewRefresher(
			worker.LoaderFunc(func(ctx context.Context) error {
				return store.Load(ctx, address.StorageSource(blobs, cfg.Dataset.Key))
			}),
			worker.Config{Interval: cfg.Dataset.RefreshInterval, Timeout: cfg.Dataset.LoadTimeout},
			func(err error) { datasetMetrics.Observe(store.Stats(), err) },
			logger,
		)
		go func() {
			if err := refresher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Dataset refresher stopped", "error", err)
			}
		}()
	}

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer(web.Templates())
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	// ==========================================================================
	// Build route dependencies
	// ==========================================================================

	apiHandler := api.NewAddressHandler(store, logger)

	formDeps := routes.FormDeps{
		Handler: form.NewAddressHandler(store, renderer, selector.Placeholder{
			Province:    cfg.Placeholder.Province,
			District:    cfg.Placeholder.District,
			SubDistrict: cfg.Placeholder.SubDistrict,
		}, logger),
	}

	rateLimit := middleware.DefaultRateLimiterConfig()
	rateLimit.RequestsPerSecond = cfg.API.RateLimitRPS
	rateLimit.BurstSize = int(cfg.API.RateLimitBurst)
	if cfg.API.TrustProxyHeaders {
		rateLimit.KeyFunc = middleware.GetForwardedClientIP
	}
	apiDeps := routes.APIDeps{
		Handler:        apiHandler,
		RateLimiter:    middleware.NewRateLimiter(rateLimit),
		AllowedOrigins: cfg.API.AllowedOrigins,
	}

	opsDeps := routes.OpsDeps{
		Health:  apiHandler.Health,
		Metrics: metrics.Handler(),
	}

	// ==========================================================================
	// Router
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0
	}

	r := router.New(
		router.Recovery(logger, func(err error) { telemetry.CaptureError(err) }),
		middleware.RequestID,
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	r.Static("/static/", web.Static())

	routes.RegisterOpsRoutes(r, opsDeps)
	routes.RegisterFormRoutes(r, formDeps)
	routes.RegisterAPIRoutes(r, apiDeps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
