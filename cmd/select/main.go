// Command select runs the streaming GMPE selection service: it consumes
// earthquake origins from Kafka, evaluates weighted GMPE sets against the
// configured tectonic regions and override layers, and publishes the
// assignments.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quakemetrics/gmpe-select/internal/adapter/geolayers"
	httpadapter "github.com/quakemetrics/gmpe-select/internal/adapter/http"
	kafkaadapter "github.com/quakemetrics/gmpe-select/internal/adapter/kafka"
	"github.com/quakemetrics/gmpe-select/internal/adapter/strec"
	"github.com/quakemetrics/gmpe-select/internal/config"
	"github.com/quakemetrics/gmpe-select/internal/domain"
	"github.com/quakemetrics/gmpe-select/internal/observability"
	"github.com/quakemetrics/gmpe-select/internal/pipeline"
	"github.com/quakemetrics/gmpe-select/internal/selection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	selCfg, err := config.LoadSelection(cfg.SelectionConfigPath)
	if err != nil {
		logger.Error("failed to load selection config", "path", cfg.SelectionConfigPath, "error", err)
		os.Exit(1)
	}

	classifier := strec.NewCachedClassifier(
		strec.NewClient(cfg.StrecURL, cfg.StrecTimeout, metrics, logger),
		cfg.StrecCacheSize,
		metrics,
	)

	// The layer distance service is only needed when the selection config
	// declares geographic override layers.
	var distancer domain.LayerDistancer
	if cfg.GeoLayersURL != "" {
		distancer = geolayers.NewClient(cfg.GeoLayersURL, cfg.GeoLayersTimeout, metrics, logger)
		logger.Info("geographic override layers enabled", "layers", len(selCfg.Layers))
	} else {
		logger.Info("geographic override layers disabled")
	}

	selector, err := selection.New(selCfg, classifier, distancer, logger)
	if err != nil {
		logger.Error("failed to build selector", "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(selector, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, selector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
