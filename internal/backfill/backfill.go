package backfill

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/identity"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

// Config bounds one backfill pass
type Config struct {
	// Limit caps the number of addresses resolved
	Limit int
	// Lookback is the activity window buyers are collected from
	Lookback time.Duration
}

// Result summarizes a backfill pass
type Result struct {
	Collected int
	Resolved  int
	Named     int
}

// Backfill refreshes the identities of active buyers
type Backfill struct {
	store    store.Store
	resolver identity.Resolver
	clock    adapter.Clock
	config   Config
}

// New creates a backfill
func New(st store.Store, resolver identity.Resolver, clock adapter.Clock, cfg Config) *Backfill {
	return &Backfill{store: st, resolver: resolver, clock: clock, config: cfg}
}

// Collect returns recent buyers followed by leaderboard buyers of the lookback window,
// deduplicated and capped at the configured limit
func (b *Backfill) Collect(ctx context.Context) ([]string, error) {
	since := b.clock.Now().UTC().Add(-b.config.Lookback)

	recent, err := b.store.GetRecentBuyers(ctx, since, b.config.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent buyers: %w", err)
	}

	leaders, err := b.store.GetLeaderboard(ctx, since, b.config.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	seen := make(map[string]struct{}, len(recent)+len(leaders))
	addresses := make([]string, 0, len(recent)+len(leaders))
	add := func(address string) {
		if _, ok := seen[address]; ok {
			return
		}
		seen[address] = struct{}{}
		addresses = append(addresses, address)
	}
	for _, address := range recent {
		add(address)
	}
	for _, entry := range leaders {
		add(entry.Address)
	}

	if b.config.Limit > 0 && len(addresses) > b.config.Limit {
		addresses = addresses[:b.config.Limit]
	}
	return addresses, nil
}

// Run collects buyers and resolves them, logging a line per completed lookup
func (b *Backfill) Run(ctx context.Context) (Result, error) {
	addresses, err := b.Collect(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Collected: len(addresses)}
	if len(addresses) == 0 {
		logger.InfoCtx(ctx, "No buyers to backfill")
		return result, nil
	}

	logger.InfoCtx(ctx, "Backfilling identities", zap.Int("addresses", len(addresses)))

	resolved, err := b.resolver.ResolveAndStore(ctx, addresses, func(done, total int) {
		logger.InfoCtx(ctx, "Backfill progress", zap.Int("done", done), zap.Int("total", total))
	})
	if err != nil {
		return result, fmt.Errorf("failed to resolve identities: %w", err)
	}

	result.Resolved = len(resolved)
	for _, r := range resolved {
		if r.Source != domain.IdentitySourceAddress && r.Source != domain.IdentitySourceContract {
			result.Named++
		}
	}

	logger.InfoCtx(ctx, "Backfill complete",
		zap.Int("collected", result.Collected),
		zap.Int("resolved", result.Resolved),
		zap.Int("named", result.Named),
	)
	return result, nil
}
