package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/feral-file/ff-buyer-indexer/internal/config"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// ErrProxyClosed is returned for requests made after Close
var ErrProxyClosed = errors.New("rate limit proxy is closed")

// RequestFunc performs the actual upstream call
type RequestFunc func(ctx context.Context) (interface{}, error)

// Proxy gates upstream calls behind a per-provider token bucket
//
//go:generate mockgen -source=proxy.go -destination=../mocks/ratelimit_proxy.go -package=mocks -mock_names=Proxy=MockRateLimitProxy
type Proxy interface {
	// Request waits for a token of providerName and then runs fn
	Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error)

	// Close rejects further requests
	Close() error
}

type proxy struct {
	limiters  map[string]*providerLimiter
	closed    atomic.Bool
	closeOnce sync.Once
}

type providerLimiter struct {
	name    string
	config  config.RateLimitConfig
	limiter *rate.Limiter
}

// NewProxy creates a proxy with one token bucket per configured provider
func NewProxy(cfg config.RateLimiterConfig) (Proxy, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	limiters := make(map[string]*providerLimiter, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		limiters[name] = &providerLimiter{
			name:    name,
			config:  pc,
			limiter: rate.NewLimiter(rate.Limit(pc.RequestsPerSecond), pc.Burst),
		}
	}

	logger.Info("Rate limit proxy initialized", zap.Int("providers", len(limiters)))

	return &proxy{limiters: limiters}, nil
}

// Request runs fn through the proxy with a typed result. A nil proxy runs fn directly.
func Request[T any](ctx context.Context, p Proxy, providerName string, fn func(ctx context.Context) (T, error)) (T, error) {
	if p == nil {
		return fn(ctx)
	}

	var zero T
	result, err := p.Request(ctx, providerName, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	return result.(T), nil
}

// Request waits at most MaxQueueTime for a token and then runs fn with the caller's context
func (p *proxy) Request(ctx context.Context, providerName string, fn RequestFunc) (interface{}, error) {
	if p.closed.Load() {
		return nil, ErrProxyClosed
	}

	limiter, ok := p.limiters[providerName]
	if !ok {
		return nil, fmt.Errorf("provider '%s' not configured", providerName)
	}

	waitCtx, cancel := context.WithTimeout(ctx, limiter.config.MaxQueueTime)
	defer cancel()

	if err := limiter.limiter.Wait(waitCtx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.DebugCtx(ctx, "Rate limit token unavailable",
			zap.String("provider", limiter.name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("rate limit wait for %s: %w", limiter.name, err)
	}

	return fn(ctx)
}

// Close rejects further requests
func (p *proxy) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		logger.Info("Rate limit proxy closed")
	})
	return nil
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *config.RateLimiterConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("at least one provider must be configured")
	}

	providers := make(map[string]config.RateLimitConfig, len(cfg.Providers))
	for name, provider := range cfg.Providers {
		if provider.RequestsPerSecond <= 0 {
			return fmt.Errorf("provider %s: requests_per_second must be positive", name)
		}
		if provider.Burst <= 0 {
			provider.Burst = max(int(provider.RequestsPerSecond), 1)
		}
		if provider.MaxQueueTime <= 0 {
			provider.MaxQueueTime = 30 * time.Second
		}
		providers[name] = provider
	}
	cfg.Providers = providers

	return nil
}
