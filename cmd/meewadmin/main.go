// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the MEEW admin API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meewadmin/internal/cache"
	"meewadmin/internal/config"
	"meewadmin/internal/database"
	"meewadmin/internal/functions"
	"meewadmin/internal/handlers"
	"meewadmin/internal/middleware"
	"meewadmin/internal/notify"
	"meewadmin/internal/router"
	"meewadmin/internal/storage"
	"meewadmin/internal/store"
)

// schedulerInterval is how often due notifications are dispatched.
const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	db, err := database.Connect(context.Background(), cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(context.Background(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	queryCache := cache.NewQueryCache(valkeyClient, cfg.QueryCacheTTL)
	// Snapshots cached before a migration or seed may no longer match the rows.
	queryCache.InvalidateAll(context.Background())

	categoryStore := store.NewCategoryStore(db)
	orderedStore := store.NewOrderedStore(db)
	promotionStore := store.NewPromotionStore(db)
	notificationStore := store.NewNotificationStore(db)
	productStore := store.NewProductStore(db)
	statsStore := store.NewStatsStore(db)
	assetStore := store.NewAssetStore(db)
	brandingStore := store.NewBrandingStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	deps := handlers.Deps{
		Categories:    categoryStore,
		Ordered:       orderedStore,
		Promotions:    promotionStore,
		Notifications: notificationStore,
		Products:      productStore,
		Stats:         statsStore,
		Assets:        assetStore,
		Branding:      brandingStore,
		Cache:         queryCache,
		CacheLog:      cacheLogStore,
	}

	// Object storage is optional; uploads answer 503 without it.
	if cfg.StorageEnabled() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			deps.Storage = storageClient
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	}
	if deps.Storage == nil {
		slog.Warn("s3 storage not configured, asset uploads disabled")
	}

	// Push delivery is optional as well. A nil *functions.Client must not
	// reach the Invoker interface.
	var invoker notify.Invoker
	if fc := functions.New(cfg.FunctionsBaseURL, cfg.FunctionsAPIKey); fc != nil {
		invoker = fc
	} else {
		slog.Warn("functions not configured, push delivery disabled")
	}
	notifier := notify.NewService(notificationStore, invoker)
	deps.Sender = notifier

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go notifier.RunScheduler(schedCtx, schedulerInterval)

	auth := middleware.NewTokenAuth(cfg.AdminTokenHash)
	limiter := middleware.NewRateLimiter(valkeyClient, 120, time.Minute)

	r := router.New(handlers.NewAPI(deps), auth, limiter)

	// WriteTimeout covers asset uploads and synchronous push sends.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
