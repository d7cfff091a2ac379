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

	"github.com/feral-file/ff-buyer-indexer/internal/backfill"
	"github.com/feral-file/ff-buyer-indexer/internal/bootstrap"
	"github.com/feral-file/ff-buyer-indexer/internal/config"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
	limit      = flag.Int("limit", 0, "Maximum number of addresses to resolve (overrides backfill.limit)")
	lookback   = flag.Duration("lookback", 0, "Activity window to collect buyers from (overrides backfill.lookback)")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadBackfillConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if *limit > 0 {
		cfg.Backfill.Limit = *limit
	}
	if *lookback > 0 {
		cfg.Backfill.Lookback = *lookback
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "identity-backfill",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting identity backfill",
		zap.Int("limit", cfg.Backfill.Limit),
		zap.Duration("lookback", cfg.Backfill.Lookback),
	)

	pipeline, err := bootstrap.New(ctx, cfg.PipelineConfig, cfg.Debug, bootstrap.Dependencies{})
	if err != nil {
		logger.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	job := backfill.New(pipeline.Store, pipeline.Resolver, pipeline.Clock, backfill.Config{
		Limit:    cfg.Backfill.Limit,
		Lookback: cfg.Backfill.Lookback,
	})

	if _, err := job.Run(ctx); err != nil {
		logger.ErrorCtx(ctx, err)
		pipeline.Close()
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}
