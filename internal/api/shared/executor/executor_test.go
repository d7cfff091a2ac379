package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/feral-file/ff-buyer-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/executor"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/types"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/ingest"
	"github.com/feral-file/ff-buyer-indexer/internal/mocks"
	"github.com/feral-file/ff-buyer-indexer/internal/store"
)

const (
	alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

var now = time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store        *mocks.MockStore
	resolver     *mocks.MockIdentityResolver
	orchestrator *mocks.MockIngestOrchestrator
	exec         executor.Executor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()

	f := &fixture{
		store:        mocks.NewMockStore(ctrl),
		resolver:     mocks.NewMockIdentityResolver(ctrl),
		orchestrator: mocks.NewMockIngestOrchestrator(ctrl),
	}
	f.exec = executor.NewExecutor(f.store, f.resolver, f.orchestrator, clock)
	return f
}

func requireAPIError(t *testing.T, err error, code apierrors.ErrorCode) {
	t.Helper()
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	assert.Equal(t, code, apiErr.Code)
}

func TestGetIdentity(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().ResolveIdentity(gomock.Any(), alice).Return(domain.FallbackIdentity(alice), nil)

		got, err := f.exec.GetIdentity(context.Background(), alice)
		require.NoError(t, err)
		assert.Equal(t, alice, got.Address)
	})

	t.Run("invalid address", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().ResolveIdentity(gomock.Any(), "nope").
			Return(domain.ResolvedIdentity{}, &domain.ValidationError{Field: "address", Message: "not a hex address"})

		_, err := f.exec.GetIdentity(context.Background(), "nope")
		requireAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})

	t.Run("resolver failure", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().ResolveIdentity(gomock.Any(), alice).Return(domain.ResolvedIdentity{}, errors.New("cache unavailable"))

		_, err := f.exec.GetIdentity(context.Background(), alice)
		requireAPIError(t, err, apierrors.ErrCodeServiceError)
	})
}

func TestGetIdentities(t *testing.T) {
	f := newFixture(t)
	addresses := []string{bob, alice, bob}
	f.resolver.EXPECT().ResolveIdentities(gomock.Any(), addresses, nil).Return([]domain.ResolvedIdentity{
		domain.FallbackIdentity(bob),
		domain.FallbackIdentity(alice),
	}, nil)

	got, err := f.exec.GetIdentities(context.Background(), addresses)
	require.NoError(t, err)
	require.Len(t, got.Identities, 2)
	assert.Equal(t, bob, got.Identities[0].Address)
}

func TestGetLeaderboard(t *testing.T) {
	aliceName := "alice.base.eth"
	rows := func() []store.LeaderboardEntry {
		return []store.LeaderboardEntry{
			{Address: alice, BuyCount: 5, UniqueTokens: 3, LastActive: now.Add(-time.Hour), Identity: &domain.Identity{Address: alice, BaseName: &aliceName}},
			{Address: bob, BuyCount: 2, UniqueTokens: 2, LastActive: now.Add(-2 * time.Hour)},
		}
	}

	t.Run("resolves missing identities", func(t *testing.T) {
		f := newFixture(t)
		bobName := "bob"
		f.store.EXPECT().GetLeaderboard(gomock.Any(), now.Add(-7*24*time.Hour), 10).Return(rows(), nil)
		f.resolver.EXPECT().ResolveIdentities(gomock.Any(), []string{bob}, nil).Return([]domain.ResolvedIdentity{
			{Address: bob, DisplayName: bobName, Source: domain.IdentitySourceFarcaster, FarcasterUsername: &bobName},
		}, nil)

		got, err := f.exec.GetLeaderboard(context.Background(), types.Period7d, 10)
		require.NoError(t, err)
		assert.Equal(t, types.Period7d, got.Period)
		require.Len(t, got.Entries, 2)

		assert.Equal(t, 1, got.Entries[0].Rank)
		assert.Equal(t, aliceName, got.Entries[0].Identity.DisplayName)
		assert.Equal(t, domain.IdentitySourceBasename, got.Entries[0].Identity.Source)

		assert.Equal(t, 2, got.Entries[1].Rank)
		assert.Equal(t, bobName, got.Entries[1].Identity.DisplayName)
	})

	t.Run("falls back to formatted address", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetLeaderboard(gomock.Any(), now.Add(-24*time.Hour), 20).Return(rows(), nil)
		f.resolver.EXPECT().ResolveIdentities(gomock.Any(), []string{bob}, nil).Return(nil, errors.New("neynar down"))

		got, err := f.exec.GetLeaderboard(context.Background(), types.Period1d, 0)
		require.NoError(t, err)
		require.Len(t, got.Entries, 2)
		assert.Equal(t, domain.FormatAddress(bob), got.Entries[1].Identity.DisplayName)
		assert.Equal(t, domain.IdentitySourceAddress, got.Entries[1].Identity.Source)
	})

	t.Run("no resolution when all identities stored", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetLeaderboard(gomock.Any(), gomock.Any(), 20).Return(rows()[:1], nil)

		got, err := f.exec.GetLeaderboard(context.Background(), types.Period30d, 20)
		require.NoError(t, err)
		assert.Len(t, got.Entries, 1)
		assert.Equal(t, now.Add(-30*24*time.Hour), got.Since)
	})

	t.Run("invalid period", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.exec.GetLeaderboard(context.Background(), types.Period("2d"), 20)
		requireAPIError(t, err, apierrors.ErrCodeValidationFailed)
	})

	t.Run("database failure", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetLeaderboard(gomock.Any(), gomock.Any(), 20).Return(nil, errors.New("connection refused"))

		_, err := f.exec.GetLeaderboard(context.Background(), types.Period1d, 20)
		requireAPIError(t, err, apierrors.ErrCodeDatabaseError)
	})
}

func TestGetBuyer(t *testing.T) {
	first := now.Add(-48 * time.Hour)
	last := now.Add(-time.Hour)
	stats := &store.ProfileStats{Address: alice, TotalBuys: 2, UniqueTokens: 2, FirstBuy: &first, LastBuy: &last}
	events := []domain.BuyEvent{
		{TxHash: "0x02", PostToken: "0xcccccccccccccccccccccccccccccccccccccccc", Buyer: alice, BlockTime: last, Source: domain.BuySourceCDP},
		{TxHash: "0x01", PostToken: "0xdddddddddddddddddddddddddddddddddddddddd", Buyer: alice, BlockTime: first, Source: domain.BuySourceCDP},
	}

	t.Run("by address", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().ResolveIdentity(gomock.Any(), alice).Return(domain.FallbackIdentity(alice), nil)
		f.store.EXPECT().GetProfileStats(gomock.Any(), alice).Return(stats, nil)
		f.store.EXPECT().GetActivityFeed(gomock.Any(), alice, 20).Return(events, nil)

		got, err := f.exec.GetBuyer(context.Background(), "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", 0)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.Stats.TotalBuys)
		require.Len(t, got.Activity, 2)
		assert.Equal(t, "0x02", got.Activity[0].TxHash)
	})

	t.Run("by name", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetAddressByName(gomock.Any(), "alice.base.eth").Return(alice, nil)
		f.resolver.EXPECT().ResolveIdentity(gomock.Any(), alice).Return(domain.FallbackIdentity(alice), nil)
		f.store.EXPECT().GetProfileStats(gomock.Any(), alice).Return(stats, nil)
		f.store.EXPECT().GetActivityFeed(gomock.Any(), alice, 5).Return(events[:1], nil)

		got, err := f.exec.GetBuyer(context.Background(), "alice.base.eth", 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Activity, 1)
	})

	t.Run("unknown name", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetAddressByName(gomock.Any(), "nobody").Return("", domain.ErrIdentityNotFound)

		got, err := f.exec.GetBuyer(context.Background(), "nobody", 5)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("stats failure", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.EXPECT().ResolveIdentity(gomock.Any(), alice).Return(domain.FallbackIdentity(alice), nil)
		f.store.EXPECT().GetProfileStats(gomock.Any(), alice).Return(nil, errors.New("timeout"))

		_, err := f.exec.GetBuyer(context.Background(), alice, 5)
		requireAPIError(t, err, apierrors.ErrCodeDatabaseError)
	})
}

func TestTriggerIngest(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.orchestrator.EXPECT().IngestNewBuys(gomock.Any(), ingest.TriggerManual).
		DoAndReturn(func(ctx context.Context, trigger string) ingest.Result {
			assert.NoError(t, ctx.Err())
			return ingest.Result{OK: true, Message: "No new buys"}
		})

	got := f.exec.TriggerIngest(ctx)
	assert.True(t, got.OK)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().Ping(gomock.Any()).Return(nil)
	assert.NoError(t, f.exec.Health(context.Background()))

	f.store.EXPECT().Ping(gomock.Any()).Return(errors.New("dial tcp: refused"))
	requireAPIError(t, f.exec.Health(context.Background()), apierrors.ErrCodeDatabaseError)
}

func TestTriggerIngest_NotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := executor.NewExecutor(mocks.NewMockStore(ctrl), mocks.NewMockIdentityResolver(ctrl), nil, mocks.NewMockClock(ctrl))

	got := exec.TriggerIngest(context.Background())
	assert.False(t, got.OK)
	require.NotNil(t, got.Error)
	assert.Equal(t, domain.CodeAuth, got.Error.Code)
}
