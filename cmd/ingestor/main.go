package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-buyer-indexer/internal/bootstrap"
	"github.com/feral-file/ff-buyer-indexer/internal/config"
	"github.com/feral-file/ff-buyer-indexer/internal/ingest"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	once       = flag.Bool("once", false, "Run a single ingestion pass and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadIngestorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "ingestor",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Ingestor")

	pipeline, err := bootstrap.New(ctx, cfg.PipelineConfig, cfg.Debug, bootstrap.Dependencies{})
	if err != nil {
		logger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	orchestrator, err := pipeline.Ingest()
	if err != nil {
		logger.Fatal("Ingestion is not configured", zap.Error(err))
	}

	if *once {
		result := orchestrator.IngestNewBuys(ctx, ingest.TriggerManual)
		if !result.OK {
			pipeline.Close()
			logger.Fatal("Ingestion failed", zap.String("message", result.Message))
		}
		return
	}

	pipeline.WatchOverrides(ctx)

	scheduler := ingest.NewScheduler(orchestrator, cfg.Ingest.Interval, pipeline.Clock)
	logger.InfoCtx(ctx, "Initialized ingest scheduler",
		zap.Duration("interval", cfg.Ingest.Interval),
		zap.Duration("lookback", cfg.Ingest.Lookback),
		zap.Int("row_cap", cfg.Ingest.RowCap),
	)

	// Start the scheduler in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := scheduler.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the scheduler
	cancel()

	// Wait for an in-flight run to unwind
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Ingest.RunTimeout)
	defer shutdownCancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.Info("Ingestor stopped")
}
