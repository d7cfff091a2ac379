package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
)

// DefaultConcurrency is the window size used when none is configured
const DefaultConcurrency = 5

// ProgressFunc is called once per completed item
type ProgressFunc func(completed, total int)

// Options configures a batch run
type Options struct {
	// Concurrency is both the window size and the in-flight cap
	Concurrency int
	// Delay is the pause between windows. There is no pause after the last window.
	Delay time.Duration
	// OnProgress is optional. Calls are serialized.
	OnProgress ProgressFunc
	// Clock is optional and defaults to the real clock
	Clock adapter.Clock
}

// Run applies fn to every item in fixed-size concurrent windows and returns
// results in input order. The first failing item aborts the run.
func Run[T any, R any](ctx context.Context, items []T, opts Options, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	clock := opts.Clock
	if clock == nil {
		clock = adapter.NewClock()
	}

	pool := pond.NewResultPool[R](concurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	total := len(items)
	results := make([]R, 0, total)

	var (
		mu        sync.Mutex
		completed int
	)
	progress := func() {
		if opts.OnProgress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		completed++
		opts.OnProgress(completed, total)
	}

	for start := 0; start < total; start += concurrency {
		end := min(start+concurrency, total)

		group := pool.NewGroup()
		for _, item := range items[start:end] {
			group.SubmitErr(func() (R, error) {
				defer progress()
				return fn(ctx, item)
			})
		}

		window, err := group.Wait()
		if err != nil {
			return nil, fmt.Errorf("batch window %d-%d failed: %w", start, end, err)
		}
		results = append(results, window...)

		if end < total && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-clock.After(opts.Delay):
			}
		}
	}

	return results, nil
}
