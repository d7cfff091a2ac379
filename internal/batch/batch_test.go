package batch_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-buyer-indexer/internal/batch"
	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
)

func immediate(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestRun_PreservesOrder(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	got, err := batch.Run(context.Background(), items, batch.Options{Concurrency: 5}, func(ctx context.Context, item int) (int, error) {
		time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
		return item * 10, nil
	})

	require.NoError(t, err)
	require.Len(t, got, len(items))
	for i, v := range got {
		assert.Equal(t, i*10, v)
	}
}

func TestRun_ConcurrencyCap(t *testing.T) {
	var inFlight, peak atomic.Int32

	items := make([]int, 40)
	_, err := batch.Run(context.Background(), items, batch.Options{Concurrency: 5}, func(ctx context.Context, item int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(5))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestRun_DelayBetweenWindowsOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	// 12 items in windows of 5 -> 3 windows -> 2 pauses
	clock.EXPECT().After(200 * time.Millisecond).DoAndReturn(immediate).Times(2)

	items := make([]int, 12)
	_, err := batch.Run(context.Background(), items, batch.Options{Concurrency: 5, Delay: 200 * time.Millisecond, Clock: clock},
		func(ctx context.Context, item int) (int, error) { return item, nil })
	require.NoError(t, err)
}

func TestRun_SingleWindowNoDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().After(gomock.Any()).Times(0)

	_, err := batch.Run(context.Background(), []int{1, 2, 3}, batch.Options{Concurrency: 5, Delay: time.Second, Clock: clock},
		func(ctx context.Context, item int) (int, error) { return item, nil })
	require.NoError(t, err)
}

func TestRun_Progress(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []int
		total int
	)

	items := make([]int, 11)
	_, err := batch.Run(context.Background(), items, batch.Options{
		Concurrency: 3,
		OnProgress: func(completed, n int) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, completed)
			total = n
		},
	}, func(ctx context.Context, item int) (int, error) { return item, nil })

	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, calls, 11)
	for i, c := range calls {
		assert.Equal(t, i+1, c)
	}
}

func TestRun_StopsOnError(t *testing.T) {
	var started atomic.Int32
	boom := errors.New("boom")

	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	_, err := batch.Run(context.Background(), items, batch.Options{Concurrency: 5}, func(ctx context.Context, item int) (int, error) {
		started.Add(1)
		if item == 2 {
			return 0, boom
		}
		return item, nil
	})

	assert.ErrorIs(t, err, boom)
	assert.LessOrEqual(t, started.Load(), int32(5))
}

func TestRun_Empty(t *testing.T) {
	got, err := batch.Run(context.Background(), []string{}, batch.Options{}, func(ctx context.Context, item string) (string, error) {
		t.Fatal("should not be called")
		return "", nil
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	items := make([]int, 10)
	_, err := batch.Run(ctx, items, batch.Options{Concurrency: 5, Delay: time.Hour}, func(ctx context.Context, item int) (int, error) {
		cancel()
		return item, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
