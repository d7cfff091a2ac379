package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// DefaultInterval is the pause between scheduled runs
const DefaultInterval = time.Minute

// Scheduler triggers an ingestion run immediately and then on every interval.
// Runs never overlap. A trigger that finds a run active is skipped, not queued.
type Scheduler struct {
	orchestrator Orchestrator
	interval     time.Duration
	clock        adapter.Clock

	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewScheduler creates a scheduler
func NewScheduler(orchestrator Orchestrator, interval time.Duration, clock adapter.Clock) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		orchestrator: orchestrator,
		interval:     interval,
		clock:        clock,
		stopChan:     make(chan struct{}),
		stoppedCh:    make(chan struct{}),
	}
}

// Name returns the scheduler name for logging
func (s *Scheduler) Name() string {
	return "ingest-scheduler"
}

// Start runs the loop until ctx is canceled or Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("scheduler already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting ingest scheduler", zap.Duration("interval", s.interval))

	for {
		s.orchestrator.IngestNewBuys(ctx, TriggerSchedule)

		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Ingest scheduler stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Ingest scheduler stop requested")
			return nil
		case <-s.clock.After(s.interval):
		}
	}
}

// Stop signals the loop and waits for the current run to finish
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping ingest scheduler")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Ingest scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Ingest scheduler stop interrupted by context timeout")
		return ctx.Err()
	}
}
