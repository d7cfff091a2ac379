package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

// initStoreFunc creates a clean store for one test
type initStoreFunc func(t *testing.T, opts Options) Store

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func buy(buyer, token, tx string, offset time.Duration) domain.BuyEvent {
	return domain.BuyEvent{
		Buyer:     buyer,
		PostToken: token,
		TxHash:    tx,
		BlockTime: baseTime.Add(offset),
		Source:    domain.BuySourceCDP,
	}
}

const (
	alice = "0x00000000000000000000000000000000000000a1"
	bob   = "0x00000000000000000000000000000000000000b2"
	carol = "0x00000000000000000000000000000000000000c3"
)

// RunStoreTests runs the shared store suite against any backend
func RunStoreTests(t *testing.T, initDB initStoreFunc) {
	t.Run("Cursor", func(t *testing.T) { testCursor(t, initDB(t, Options{})) })
	t.Run("InsertBuys", func(t *testing.T) { testInsertBuys(t, initDB(t, Options{})) })
	t.Run("InsertBuysChunked", func(t *testing.T) { testInsertBuysChunked(t, initDB(t, Options{InsertChunkSize: 2})) })
	t.Run("Identities", func(t *testing.T) { testIdentities(t, initDB(t, Options{})) })
	t.Run("GetAddressByName", func(t *testing.T) { testGetAddressByName(t, initDB(t, Options{})) })
	t.Run("Leaderboard", func(t *testing.T) { testLeaderboard(t, initDB(t, Options{})) })
	t.Run("ActivityFeed", func(t *testing.T) { testActivityFeed(t, initDB(t, Options{})) })
	t.Run("RecentBuyers", func(t *testing.T) { testRecentBuyers(t, initDB(t, Options{})) })
	t.Run("ProfileStats", func(t *testing.T) { testProfileStats(t, initDB(t, Options{})) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, initDB(t, Options{}).Ping(context.Background())) })
}

func testCursor(t *testing.T, s Store) {
	ctx := context.Background()

	value, err := s.GetCursor(ctx, domain.CursorKey)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, s.SetCursor(ctx, domain.CursorKey, "2025-03-01 12:00:00"))
	require.NoError(t, s.SetCursor(ctx, domain.CursorKey, "2025-03-01 13:00:00"))

	value, err = s.GetCursor(ctx, domain.CursorKey)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 13:00:00", value)
}

func testInsertBuys(t *testing.T, s Store) {
	ctx := context.Background()

	first := buy(alice, "0xt1", "0xtx1", 0)
	first.Extra = map[string]interface{}{"coin_name": "hello"}
	events := []domain.BuyEvent{first, buy(bob, "0xt1", "0xtx2", time.Minute)}

	res, err := s.InsertBuys(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Persisted)
	assert.Equal(t, int64(2), res.Inserted)

	// same rows again plus one new one
	res, err = s.InsertBuys(ctx, append(events, buy(carol, "0xt2", "0xtx3", 2*time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Persisted)
	assert.Equal(t, int64(1), res.Inserted)

	count, err := s.CountBuys(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	res, err = s.InsertBuys(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, InsertResult{}, res)
}

func testInsertBuysChunked(t *testing.T, s Store) {
	ctx := context.Background()

	events := []domain.BuyEvent{
		buy(alice, "0xt1", "0xtx1", 0),
		buy(alice, "0xt2", "0xtx2", time.Second),
		buy(bob, "0xt1", "0xtx3", 2*time.Second),
		buy(bob, "0xt1", "0xtx3", 2*time.Second),
		buy(carol, "0xt3", "0xtx4", 3*time.Second),
	}

	res, err := s.InsertBuys(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Persisted)
	assert.Equal(t, int64(4), res.Inserted)
}

func testIdentities(t *testing.T, s Store) {
	ctx := context.Background()

	got, err := s.GetIdentity(ctx, alice)
	require.NoError(t, err)
	assert.Nil(t, got)

	fid := int64(42)
	id := domain.Identity{
		Address:           alice,
		BaseName:          domain.StringPtr("alice.base.eth"),
		FarcasterUsername: domain.StringPtr("alice"),
		FarcasterFID:      &fid,
		UpdatedAt:         baseTime,
	}
	require.NoError(t, s.SaveIdentity(ctx, &id))

	got, err = s.GetIdentity(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice.base.eth", *got.BaseName)
	assert.Equal(t, int64(42), *got.FarcasterFID)
	assert.Nil(t, got.ENSName)
	assert.True(t, baseTime.Equal(got.UpdatedAt))

	// last write wins, including cleared fields
	contract := domain.Identity{Address: alice, IsContract: true, UpdatedAt: baseTime.Add(time.Hour)}
	require.NoError(t, s.SaveIdentity(ctx, &contract))

	got, err = s.GetIdentity(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsContract)
	assert.Nil(t, got.BaseName)
	assert.Nil(t, got.FarcasterFID)
	assert.True(t, baseTime.Add(time.Hour).Equal(got.UpdatedAt))

	require.NoError(t, s.SaveIdentity(ctx, &domain.Identity{Address: bob, UpdatedAt: baseTime}))

	many, err := s.GetIdentities(ctx, []string{alice, bob, carol})
	require.NoError(t, err)
	assert.Len(t, many, 2)

	many, err = s.GetIdentities(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, many)

	assert.Error(t, s.SaveIdentity(ctx, nil))
}

func testGetAddressByName(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveIdentity(ctx, &domain.Identity{
		Address:   alice,
		BaseName:  domain.StringPtr("Alice.base.eth"),
		UpdatedAt: baseTime,
	}))
	require.NoError(t, s.SaveIdentity(ctx, &domain.Identity{
		Address:    bob,
		ZoraHandle: domain.StringPtr("bobby"),
		UpdatedAt:  baseTime,
	}))

	addr, err := s.GetAddressByName(ctx, "alice.BASE.eth")
	require.NoError(t, err)
	assert.Equal(t, alice, addr)

	addr, err = s.GetAddressByName(ctx, "@bobby")
	require.NoError(t, err)
	assert.Equal(t, bob, addr)

	_, err = s.GetAddressByName(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)

	_, err = s.GetAddressByName(ctx, " @ ")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func testLeaderboard(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.InsertBuys(ctx, []domain.BuyEvent{
		buy(carol, "0xt1", "0xold", -48*time.Hour),
		buy(alice, "0xt1", "0xtx1", 0),
		buy(alice, "0xt1", "0xtx2", time.Minute),
		buy(alice, "0xt2", "0xtx3", 2*time.Minute),
		buy(bob, "0xt3", "0xtx4", 3*time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, s.SaveIdentity(ctx, &domain.Identity{
		Address:   alice,
		BaseName:  domain.StringPtr("alice.base.eth"),
		UpdatedAt: baseTime,
	}))

	entries, err := s.GetLeaderboard(ctx, baseTime.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, alice, entries[0].Address)
	assert.Equal(t, int64(3), entries[0].BuyCount)
	assert.Equal(t, int64(2), entries[0].UniqueTokens)
	assert.True(t, baseTime.Add(2*time.Minute).Equal(entries[0].LastActive))
	require.NotNil(t, entries[0].Identity)
	assert.Equal(t, "alice.base.eth", *entries[0].Identity.BaseName)

	assert.Equal(t, bob, entries[1].Address)
	assert.Nil(t, entries[1].Identity)

	entries, err = s.GetLeaderboard(ctx, baseTime.Add(-72*time.Hour), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, alice, entries[0].Address)
}

func testActivityFeed(t *testing.T, s Store) {
	ctx := context.Background()

	withExtra := buy(bob, "0xt2", "0xtx2", time.Minute)
	withExtra.Source = domain.BuySourceZora
	withExtra.Extra = map[string]interface{}{"coin_name": "sunset"}

	_, err := s.InsertBuys(ctx, []domain.BuyEvent{
		buy(alice, "0xt1", "0xtx1", 0),
		withExtra,
		buy(alice, "0xt3", "0xtx3", 2*time.Minute),
	})
	require.NoError(t, err)

	events, err := s.GetActivityFeed(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "0xtx3", events[0].TxHash)
	assert.Equal(t, "0xtx2", events[1].TxHash)
	assert.Equal(t, domain.BuySourceZora, events[1].Source)
	assert.Equal(t, "sunset", events[1].Extra["coin_name"])
	assert.True(t, baseTime.Add(time.Minute).Equal(events[1].BlockTime))

	events, err = s.GetActivityFeed(ctx, alice, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "0xtx3", events[0].TxHash)
}

func testRecentBuyers(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.InsertBuys(ctx, []domain.BuyEvent{
		buy(carol, "0xt1", "0xold", -48*time.Hour),
		buy(alice, "0xt1", "0xtx1", 0),
		buy(bob, "0xt1", "0xtx2", time.Minute),
		buy(alice, "0xt2", "0xtx3", 2*time.Minute),
	})
	require.NoError(t, err)

	buyers, err := s.GetRecentBuyers(ctx, baseTime.Add(-time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{alice, bob}, buyers)

	buyers, err = s.GetRecentBuyers(ctx, baseTime.Add(-72*time.Hour), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{alice, bob}, buyers)
}

func testProfileStats(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.InsertBuys(ctx, []domain.BuyEvent{
		buy(alice, "0xt1", "0xtx1", 0),
		buy(alice, "0xt1", "0xtx2", time.Hour),
		buy(alice, "0xt2", "0xtx3", 2*time.Hour),
	})
	require.NoError(t, err)

	stats, err := s.GetProfileStats(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBuys)
	assert.Equal(t, int64(2), stats.UniqueTokens)
	require.NotNil(t, stats.FirstBuy)
	require.NotNil(t, stats.LastBuy)
	assert.True(t, baseTime.Equal(*stats.FirstBuy))
	assert.True(t, baseTime.Add(2*time.Hour).Equal(*stats.LastBuy))

	stats, err = s.GetProfileStats(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalBuys)
	assert.Nil(t, stats.FirstBuy)
	assert.Nil(t, stats.LastBuy)
}
