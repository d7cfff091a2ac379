package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

// NotifyFunc observes a failed attempt before the executor sleeps.
// attempt is 1-based and counts retries, delay is the upcoming wait.
type NotifyFunc func(attempt int, err error, delay time.Duration)

// Options configures the executor
type Options struct {
	MaxRetries   int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
	JitterFactor float64
	OnRetry      NotifyFunc
}

// DefaultOptions returns the options used for upstream analytics queries
func DefaultOptions() Options {
	return Options{
		MaxRetries:   3,
		BaseDelay:    time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.2,
	}
}

// ComputeDelay returns min(2^attempt * base, maxDelay) with signed jitter applied.
// r is a uniform sample in [0, 1). The result is never negative.
func ComputeDelay(attempt int, base, maxDelay time.Duration, jitterFactor float64, r float64) time.Duration {
	delay := float64(base) * math.Pow(2, float64(attempt))
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	delay += delay * jitterFactor * (2*r - 1)
	if delay < 0 {
		return 0
	}
	return time.Duration(delay)
}

// Policy is a backoff.BackOff implementing the exponential jittered delay.
// A pending override, set from a rate-limited error, replaces the next computed delay.
type Policy struct {
	opts Options
	rand func() float64

	mu       sync.Mutex
	attempt  int
	override *time.Duration
}

// NewPolicy creates a policy from options
func NewPolicy(opts Options) *Policy {
	return &Policy{opts: opts, rand: rand.Float64}
}

// NextBackOff implements backoff.BackOff
func (p *Policy) NextBackOff() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	attempt := p.attempt
	p.attempt++

	if p.override != nil {
		d := *p.override
		p.override = nil
		return d
	}

	return ComputeDelay(attempt, p.opts.BaseDelay, p.opts.MaxDelay, p.opts.JitterFactor, p.rand())
}

// Reset implements backoff.BackOff
func (p *Policy) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempt = 0
	p.override = nil
}

// Override makes the next delay exactly d
func (p *Policy) Override(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.override = &d
}

// Do runs op until it succeeds, fails with a non-retryable error, exhausts
// MaxRetries or ctx is done. The last error is returned unwrapped.
func Do[T any](ctx context.Context, opts Options, op func(ctx context.Context) (T, error)) (T, error) {
	return do(ctx, NewPolicy(opts), opts, op)
}

func do[T any](ctx context.Context, policy *Policy, opts Options, op func(ctx context.Context) (T, error)) (T, error) {
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(maxRetries)), ctx)

	operation := func() (T, error) {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !domain.IsRetryable(err) {
			return result, backoff.Permanent(err)
		}
		if d, ok := domain.RetryAfter(err); ok {
			policy.Override(d)
		}
		return result, err
	}

	attempt := 0
	notify := func(err error, delay time.Duration) {
		attempt++
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err, delay)
		}
	}

	return backoff.RetryNotifyWithData(operation, b, notify)
}
