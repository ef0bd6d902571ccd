package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/njstats/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/njstats/internal/adapter/kafka"
	"github.com/couchcryptid/njstats/internal/bootstrap"
	"github.com/couchcryptid/njstats/internal/config"
	"github.com/couchcryptid/njstats/internal/observability"
	"github.com/couchcryptid/njstats/internal/pipeline"
	"github.com/couchcryptid/njstats/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sources, err := bootstrap.OpenSources(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open sources", "error", err)
		os.Exit(1)
	}

	// Assets are checked first so a bad file aborts before the store is replaced.
	assets, err := bootstrap.LoadAssets(ctx, sources)
	if err != nil {
		logger.Error("failed to load assets", "error", err)
		os.Exit(1)
	}

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()

	// Seed notifications are feature-flagged via KAFKA_BROKERS.
	var opts []pipeline.Option
	if cfg.PublishSeeds() {
		publisher := kafkaadapter.NewPublisher(cfg, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		opts = append(opts, pipeline.WithNotifier(publisher))
		logger.Info("seed notifications enabled", "topic", cfg.KafkaSeedTopic)
	}

	// Seed before listening; the relations are read-only afterwards.
	seeder := pipeline.New(sources, store, cfg.StateCode, logger, metrics, opts...)
	if _, err := seeder.Run(ctx); err != nil {
		logger.Error("seed failed, aborting startup", "error", err)
		os.Exit(1) //nolint:gocritic // deferred closes are best-effort
	}

	reports := report.New(store, sources, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, reports, assets, seeder, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
