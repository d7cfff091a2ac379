package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/config"
	"github.com/feral-file/ff-buyer-indexer/internal/identity"
	"github.com/feral-file/ff-buyer-indexer/internal/ingest"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/cdp"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/ethereum"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/neynar"
	"github.com/feral-file/ff-buyer-indexer/internal/providers/zora"
	"github.com/feral-file/ff-buyer-indexer/internal/ratelimit"
	"github.com/feral-file/ff-buyer-indexer/internal/registry"
	"github.com/feral-file/ff-buyer-indexer/internal/retry"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

// httpTimeout is the outer bound of any upstream call. Providers apply their own shorter timeouts.
const httpTimeout = 2 * time.Minute

// ErrIngestDisabled is returned by Ingest when no analytics credentials are configured
var ErrIngestDisabled = errors.New("ingestion disabled: cdp credentials are not configured")

// Dependencies are the adapters the pipeline is built on. Zero values are replaced by the real adapters.
type Dependencies struct {
	Clock      adapter.Clock
	HTTPClient adapter.HTTPClient
	FileSystem adapter.FileSystem
	EthDialer  adapter.EthClientDialer
}

// Pipeline holds the shared components of every process: the store, the identity
// resolver and, when credentials are configured, the ingestion orchestrator.
type Pipeline struct {
	DB        *gorm.DB
	Store     store.Store
	Clock     adapter.Clock
	Overrides registry.OverrideRegistry
	Cache     *identity.Cache
	Resolver  identity.Resolver

	orchestrator ingest.Orchestrator
	proxy        ratelimit.Proxy
	ethClients   []adapter.EthClient
}

// New builds the pipeline from configuration
func New(ctx context.Context, cfg config.PipelineConfig, debug bool, deps Dependencies) (*Pipeline, error) {
	if deps.Clock == nil {
		deps.Clock = adapter.NewClock()
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = adapter.NewHTTPClient(httpTimeout)
	}
	if deps.FileSystem == nil {
		deps.FileSystem = adapter.NewFileSystem()
	}
	if deps.EthDialer == nil {
		deps.EthDialer = adapter.NewEthClientDialer()
	}

	p := &Pipeline{Clock: deps.Clock}

	db, err := store.Open(cfg.Database, debug)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	p.DB = db
	p.Store = store.NewStore(db, store.Options{InsertChunkSize: cfg.Ingest.InsertChunkSize})
	logger.InfoCtx(ctx, "Connected to database", zap.String("driver", cfg.Database.Driver))

	proxy, err := ratelimit.NewProxy(cfg.RateLimit)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create rate limit proxy: %w", err)
	}
	p.proxy = proxy

	overrides, err := registry.LoadOverrides(deps.FileSystem, cfg.Identity.OverridesPath)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to load identity overrides: %w", err)
	}
	p.Overrides = overrides
	logger.InfoCtx(ctx, "Loaded identity overrides", zap.Int("count", overrides.Len()))

	sources := identity.Sources{
		Manual: overrides,
		Zora: zora.NewProfileClient(deps.HTTPClient, proxy, zora.ProfileConfig{
			ProfileURL: cfg.Zora.ProfileURL,
			APIKey:     cfg.Zora.APIKey,
			Timeout:    cfg.Zora.Timeout,
		}),
	}

	if cfg.Neynar.APIKey != "" {
		sources.Farcaster = neynar.NewClient(deps.HTTPClient, proxy, neynar.Config{
			APIURL:  cfg.Neynar.APIURL,
			APIKey:  cfg.Neynar.APIKey,
			Timeout: cfg.Identity.NameTimeout,
		})
	} else {
		logger.WarnCtx(ctx, "Neynar API key not configured, farcaster lookups disabled")
	}

	if base := p.dial(ctx, deps.EthDialer, cfg.RPC.BaseURL, config.ProviderBaseRPC); base != nil {
		sources.Basename = ethereum.NewBasenameSource(base)
		sources.Bytecode = ethereum.NewBytecodeProbe(base)
	}
	if mainnet := p.dial(ctx, deps.EthDialer, cfg.RPC.EthereumURL, config.ProviderEthereumRPC); mainnet != nil {
		sources.ENS = ethereum.NewENSSource(mainnet)
	}

	p.Cache = identity.NewCache(p.Store, deps.Clock, identity.CacheConfig{
		TTL: identity.TTLPolicy{
			Named:   cfg.Identity.NamedTTL,
			Unnamed: cfg.Identity.UnnamedTTL,
		},
		MemoryEntries: cfg.Identity.MemoryEntries,
		MemoryTTL:     cfg.Identity.MemoryTTL,
	})
	waterfall := identity.NewWaterfall(sources.Steps(), cfg.Identity.NameTimeout, deps.Clock)
	p.Resolver = identity.NewResolver(p.Cache, waterfall, deps.Clock, identity.ResolverConfig{
		Concurrency: cfg.Identity.Concurrency,
		BatchDelay:  cfg.Identity.BatchDelay,
	})

	if cfg.CDP.KeyID == "" || cfg.CDP.KeySecret == "" {
		logger.WarnCtx(ctx, "CDP credentials not configured, ingestion disabled")
		return p, nil
	}

	orchestrator, err := p.newOrchestrator(cfg, deps)
	if err != nil {
		p.Close()
		return nil, err
	}
	p.orchestrator = orchestrator

	return p, nil
}

func (p *Pipeline) newOrchestrator(cfg config.PipelineConfig, deps Dependencies) (ingest.Orchestrator, error) {
	signer, err := cdp.NewSigner(cfg.CDP.KeyID, cfg.CDP.KeySecret, deps.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to create cdp signer: %w", err)
	}

	cdpClient, err := cdp.NewClient(deps.HTTPClient, p.proxy, signer, cdp.Config{
		APIURL:  cfg.CDP.APIURL,
		Timeout: cfg.CDP.Timeout,
		Retry: retry.Options{
			MaxRetries:   cfg.CDP.MaxRetries,
			BaseDelay:    cfg.CDP.BaseDelay,
			MaxDelay:     cfg.CDP.MaxDelay,
			JitterFactor: cfg.CDP.JitterFactor,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cdp client: %w", err)
	}

	var feed zora.FeedClient
	if cfg.Ingest.FeedEnabled {
		feed, err = zora.NewFeedClient(deps.HTTPClient, p.proxy, zora.FeedConfig{
			GraphQLURL: cfg.Zora.GraphQLURL,
			APIKey:     cfg.Zora.APIKey,
			Timeout:    cfg.Zora.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create zora feed client: %w", err)
		}
	}

	return ingest.NewOrchestrator(p.Store, cdpClient, feed, p.Resolver, deps.Clock, ingest.Config{
		Lookback:     cfg.Ingest.Lookback,
		CoinLookback: cfg.CDP.CoinLookback,
		RowCap:       cfg.Ingest.RowCap,
		Factory:      cfg.CDP.FactoryAddress,
		FeedLimit:    cfg.Zora.FeedLimit,
		RunTimeout:   cfg.Ingest.RunTimeout,
	}), nil
}

// dial connects a rate limited JSON-RPC client. Name sources that need it are skipped on failure.
func (p *Pipeline) dial(ctx context.Context, dialer adapter.EthClientDialer, url string, provider string) ethereum.EthereumClient {
	if url == "" {
		logger.WarnCtx(ctx, "RPC endpoint not configured, dependent name sources disabled", zap.String("provider", provider))
		return nil
	}

	client, err := dialer.Dial(ctx, url)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to dial RPC endpoint, dependent name sources disabled",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return nil
	}
	p.ethClients = append(p.ethClients, client)
	return ethereum.NewClient(client, p.proxy, provider)
}

// Ingest returns the orchestrator, or ErrIngestDisabled when it was not configured
func (p *Pipeline) Ingest() (ingest.Orchestrator, error) {
	if p.orchestrator == nil {
		return nil, ErrIngestDisabled
	}
	return p.orchestrator, nil
}

// WatchOverrides reloads the override file on change until ctx is done.
// A watcher that cannot start leaves the loaded table in place.
func (p *Pipeline) WatchOverrides(ctx context.Context) {
	if err := p.Overrides.Watch(ctx); err != nil {
		logger.WarnCtx(ctx, "Failed to watch identity overrides", zap.Error(err))
	}
}

// Close waits for pending cache writes and releases connections
func (p *Pipeline) Close() {
	if p.Resolver != nil {
		p.Resolver.Close()
	}
	for _, c := range p.ethClients {
		c.Close()
	}
	if p.proxy != nil {
		if err := p.proxy.Close(); err != nil {
			logger.Warn("Failed to close rate limit proxy", zap.Error(err))
		}
	}
	if p.DB != nil {
		if err := store.Close(p.DB); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}
