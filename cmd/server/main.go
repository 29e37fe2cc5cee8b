// Package main is the entry point for the bookstore monolith.
// It wires together all modules and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/internal/app"
	"github.com/rai/clean-bookstore-go/internal/platform/amqp"
	"github.com/rai/clean-bookstore-go/internal/platform/config"
	"github.com/rai/clean-bookstore-go/internal/platform/eventbus"
	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/internal/platform/spanner"
	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/internal/platform/telemetry"
)

const serviceName = "bookstore"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting bookstore", slog.String("store", cfg.StoreDriver))

	shutdownTracing := telemetry.InitTracing(serviceName)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	stores, closeStores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	// Initialize event bus (for inter-module communication)
	eventBus := eventbus.New(logger)

	opts := app.Options{
		Stores:           stores,
		EventBus:         eventBus,
		Currency:         cfg.Currency,
		RejectOutOfStock: cfg.CartRejectOutOfStock,
		Logger:           logger,
	}

	if cfg.RabbitURL != "" {
		broker, err := amqp.Dial(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return err
		}
		defer broker.Close()
		opts.Broadcaster = broker
		logger.Info("relaying order events", slog.String("exchange", cfg.RabbitExchange))
	}

	registry := telemetry.NewRegistry()
	opts.CheckoutObserver = telemetry.NewCheckoutMetrics(registry)
	serverMetrics := telemetry.NewServerMetrics(registry)

	application, err := app.New(opts)
	if err != nil {
		return err
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:         logger,
		AllowedOrigins: cfg.CORSOrigins,
		Instrument:     serverMetrics.Middleware,
	})
	router.Handle("/metrics", telemetry.Handler(registry))
	router.Route("/api/v1", func(r chi.Router) {
		application.RegisterRoutes(r)
	})

	server := httpserver.New(cfg.HTTP, telemetry.TraceHTTP(router), logger)
	return server.Run(ctx)
}

// openStores connects the configured backend. The returned func releases it.
func openStores(ctx context.Context, cfg config.Config, logger *slog.Logger) (app.Stores, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.Spanner)
		if err != nil {
			return app.Stores{}, nil, err
		}
		logger.Info("connected to spanner", slog.String("dsn", cfg.Spanner.DSN()))
		return app.NewSpannerStores(client), client.Close, nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return app.Stores{}, nil, fmt.Errorf("creating data directory: %w", err)
		}
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return app.Stores{}, nil, err
		}
		stores, err := app.NewSQLiteStores(ctx, db)
		if err != nil {
			_ = db.Close()
			return app.Stores{}, nil, err
		}
		logger.Info("opened sqlite", slog.String("path", cfg.SQLitePath))
		return stores, func() { _ = db.Close() }, nil
	}
}
