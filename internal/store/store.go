package store

import (
	"context"
	"time"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetCursor returns the value stored under key, or "" when unset
	GetCursor(ctx context.Context, key string) (string, error)
	// SetCursor stores value under key
	SetCursor(ctx context.Context, key string, value string) error

	// InsertBuys persists events in order, in chunks. Rows that conflict on
	// (tx_hash, post_token, buyer) are skipped silently. On failure the result
	// still reports how many leading events were persisted.
	InsertBuys(ctx context.Context, events []domain.BuyEvent) (InsertResult, error)
	// CountBuys returns the number of persisted buy events
	CountBuys(ctx context.Context) (int64, error)

	// GetIdentity returns the identity row of address, or nil when absent
	GetIdentity(ctx context.Context, address string) (*domain.Identity, error)
	// GetIdentities returns the identity rows that exist among addresses
	GetIdentities(ctx context.Context, addresses []string) ([]domain.Identity, error)
	// SaveIdentity upserts an identity, last write wins
	SaveIdentity(ctx context.Context, identity *domain.Identity) error
	// GetAddressByName finds the address whose name fields match name, case-insensitively
	GetAddressByName(ctx context.Context, name string) (string, error)

	// GetLeaderboard ranks buyers active since the given time by buy count
	GetLeaderboard(ctx context.Context, since time.Time, limit int) ([]LeaderboardEntry, error)
	// GetActivityFeed returns the newest buys, for one buyer when buyer is not empty
	GetActivityFeed(ctx context.Context, buyer string, limit int) ([]domain.BuyEvent, error)
	// GetRecentBuyers returns distinct buyers since the given time, most recent first
	GetRecentBuyers(ctx context.Context, since time.Time, limit int) ([]string, error)
	// GetProfileStats aggregates the buys of one buyer
	GetProfileStats(ctx context.Context, buyer string) (*ProfileStats, error)

	// Ping checks connectivity
	Ping(ctx context.Context) error
}

// InsertResult reports the outcome of InsertBuys
type InsertResult struct {
	// Persisted is the number of leading input events that are known to be stored
	Persisted int
	// Inserted is the number of new rows. Conflicting duplicates are not counted.
	Inserted int64
}

// LeaderboardEntry is one ranked buyer
type LeaderboardEntry struct {
	Address      string           `json:"address"`
	BuyCount     int64            `json:"buyCount"`
	UniqueTokens int64            `json:"uniqueTokens"`
	LastActive   time.Time        `json:"lastActive"`
	Identity     *domain.Identity `json:"-"`
}

// ProfileStats summarizes one buyer
type ProfileStats struct {
	Address      string     `json:"address"`
	TotalBuys    int64      `json:"totalBuys"`
	UniqueTokens int64      `json:"uniqueTokens"`
	FirstBuy     *time.Time `json:"firstBuy,omitempty"`
	LastBuy      *time.Time `json:"lastBuy,omitempty"`
}
