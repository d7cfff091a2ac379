package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/batch"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// Resolver turns addresses into display identities
//
//go:generate mockgen -source=resolver.go -destination=../mocks/identity_resolver.go -package=mocks -mock_names=Resolver=MockIdentityResolver
type Resolver interface {
	// ResolveIdentity returns the identity of one address, from cache when fresh
	ResolveIdentity(ctx context.Context, address string) (domain.ResolvedIdentity, error)

	// ResolveIdentities resolves many addresses. The output is deduplicated and follows
	// the first occurrence order of the input. onProgress is optional and counts fresh lookups.
	// Cache writes of fresh results finish in the background.
	ResolveIdentities(ctx context.Context, addresses []string, onProgress batch.ProgressFunc) ([]domain.ResolvedIdentity, error)

	// ResolveAndStore is ResolveIdentities that returns only after the cache
	// writes of this call are done
	ResolveAndStore(ctx context.Context, addresses []string, onProgress batch.ProgressFunc) ([]domain.ResolvedIdentity, error)

	// Close waits for background cache writes and stops accepting new ones
	Close()
}

// ResolverConfig configures bulk resolution
type ResolverConfig struct {
	Concurrency int
	BatchDelay  time.Duration
}

type resolver struct {
	cache     *Cache
	waterfall *Waterfall
	clock     adapter.Clock
	config    ResolverConfig

	// saves runs background cache writes
	saves pond.Pool
}

// NewResolver creates a resolver over a shared cache and waterfall
func NewResolver(cache *Cache, waterfall *Waterfall, clock adapter.Clock, cfg ResolverConfig) Resolver {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = batch.DefaultConcurrency
	}
	return &resolver{
		cache:     cache,
		waterfall: waterfall,
		clock:     clock,
		config:    cfg,
		saves:     pond.NewPool(cfg.Concurrency),
	}
}

func (r *resolver) ResolveIdentity(ctx context.Context, address string) (domain.ResolvedIdentity, error) {
	normalized, err := domain.NormalizeAddress(address)
	if err != nil {
		return domain.ResolvedIdentity{}, err
	}

	cached, err := r.cache.Get(ctx, normalized)
	if err != nil {
		return domain.ResolvedIdentity{}, err
	}
	if cached != nil {
		return cached.Resolve(), nil
	}

	fresh, err := r.waterfall.Resolve(ctx, normalized)
	if err != nil {
		return domain.ResolvedIdentity{}, fmt.Errorf("identity lookup interrupted: %w", err)
	}
	if err := r.cache.Put(ctx, &fresh); err != nil {
		return domain.ResolvedIdentity{}, err
	}

	return fresh.Resolve(), nil
}

func (r *resolver) ResolveIdentities(ctx context.Context, addresses []string, onProgress batch.ProgressFunc) ([]domain.ResolvedIdentity, error) {
	return r.resolveMany(ctx, addresses, onProgress, func(task func()) { r.saves.Submit(task) })
}

func (r *resolver) ResolveAndStore(ctx context.Context, addresses []string, onProgress batch.ProgressFunc) ([]domain.ResolvedIdentity, error) {
	group := r.saves.NewGroup()
	resolved, err := r.resolveMany(ctx, addresses, onProgress, func(task func()) { group.Submit(task) })
	// saves log their own failures
	_ = group.Wait()
	return resolved, err
}

func (r *resolver) Close() {
	r.saves.StopAndWait()
}

// submitFunc schedules a background cache write
type submitFunc func(task func())

func (r *resolver) resolveMany(ctx context.Context, addresses []string, onProgress batch.ProgressFunc, submit submitFunc) ([]domain.ResolvedIdentity, error) {
	unique, err := dedupe(addresses)
	if err != nil {
		return nil, err
	}
	if len(unique) == 0 {
		return []domain.ResolvedIdentity{}, nil
	}

	known, err := r.cache.GetMany(ctx, unique)
	if err != nil {
		return nil, err
	}

	misses := make([]string, 0, len(unique))
	for _, addr := range unique {
		if _, ok := known[addr]; !ok {
			misses = append(misses, addr)
		}
	}

	logger.DebugCtx(ctx, "Resolving identities",
		zap.Int("requested", len(addresses)),
		zap.Int("unique", len(unique)),
		zap.Int("cached", len(unique)-len(misses)),
	)

	fresh, err := batch.Run(ctx, misses, batch.Options{
		Concurrency: r.config.Concurrency,
		Delay:       r.config.BatchDelay,
		OnProgress:  onProgress,
		Clock:       r.clock,
	}, func(ctx context.Context, addr string) (domain.Identity, error) {
		if err := ctx.Err(); err != nil {
			return domain.Identity{}, err
		}
		id, err := r.waterfall.Resolve(ctx, addr)
		if err != nil {
			return domain.Identity{}, err
		}
		r.saveAsync(ctx, submit, id)
		return id, nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk identity resolution: %w", err)
	}
	for _, id := range fresh {
		known[id.Address] = id
	}

	out := make([]domain.ResolvedIdentity, 0, len(unique))
	for _, addr := range unique {
		id, ok := known[addr]
		if !ok {
			out = append(out, domain.FallbackIdentity(addr))
			continue
		}
		out = append(out, id.Resolve())
	}
	return out, nil
}

// saveAsync writes a fresh identity without holding up the caller. Failures are logged.
func (r *resolver) saveAsync(ctx context.Context, submit submitFunc, id domain.Identity) {
	ctx = context.WithoutCancel(ctx)
	submit(func() {
		if err := r.cache.Put(ctx, &id); err != nil {
			logger.WarnCtx(ctx, "Failed to cache identity", zap.String("address", id.Address), zap.Error(err))
		}
	})
}

// dedupe normalizes addresses and keeps the first occurrence of each
func dedupe(addresses []string) ([]string, error) {
	seen := make(map[string]struct{}, len(addresses))
	unique := make([]string, 0, len(addresses))
	for _, a := range addresses {
		normalized, err := domain.NormalizeAddress(a)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, normalized)
	}
	return unique, nil
}
