package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/denguelab/dengue-dashboard/internal/adapter/http"
	kafkaadapter "github.com/denguelab/dengue-dashboard/internal/adapter/kafka"
	"github.com/denguelab/dengue-dashboard/internal/config"
	"github.com/denguelab/dengue-dashboard/internal/dataset"
	"github.com/denguelab/dengue-dashboard/internal/model"
	"github.com/denguelab/dengue-dashboard/internal/observability"
	"github.com/denguelab/dengue-dashboard/internal/predict"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Load the case dataset. A missing or unreadable file is not fatal: the
	// statistics routes answer 500 while prediction keeps working.
	data, err := dataset.Load(cfg.DataPath, logger)
	if err != nil {
		logger.Error("case dataset unavailable, statistics degraded", "path", cfg.DataPath, "error", err)
	} else {
		logger.Info("case dataset loaded", "path", cfg.DataPath, "records", data.Size(), "skipped_rows", data.SkippedRows)
		metrics.DatasetLoaded.Set(1)
		metrics.DatasetRows.Set(float64(data.Size()))
		metrics.DatasetRowsSkipped.Set(float64(data.SkippedRows))
	}

	// Same degraded-mode treatment for the prediction artifact.
	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		logger.Error("prediction model unavailable, prediction degraded", "path", cfg.ModelPath, "error", err)
	} else {
		logger.Info("prediction model loaded", "path", cfg.ModelPath, "version", m.Version(), "features", len(m.Features()))
		metrics.ModelLoaded.Set(1)
	}

	// Audit publishing is feature-flagged via AUDIT_KAFKA_BROKERS /
	// AUDIT_ENABLED.
	var auditor predict.Auditor
	var auditWriter *kafkaadapter.AuditWriter
	if cfg.AuditEnabled {
		auditWriter = kafkaadapter.NewAuditWriter(cfg, logger)
		auditor = auditWriter
		logger.Info("prediction audit enabled", "brokers", cfg.AuditBrokers, "topic", cfg.AuditTopic)
	} else {
		logger.Info("prediction audit disabled")
	}

	predictor := predict.New(m, auditor, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, data, predictor, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if auditWriter != nil {
		if err := auditWriter.Close(); err != nil {
			logger.Error("audit writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
