package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-buyer-indexer/internal/domain"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
	"github.com/feral-file/ff-buyer-indexer/internal/store/schema"
)

// DefaultInsertChunkSize is the number of buy rows written per statement
const DefaultInsertChunkSize = 100

// nameColumns are the identity columns searched by GetAddressByName
var nameColumns = []string{"manual_name", "base_name", "ens", "farcaster_username", "zora_handle"}

// Options tunes the store
type Options struct {
	InsertChunkSize int
}

type gormStore struct {
	db        *gorm.DB
	chunkSize int
}

// NewStore creates a store on top of an open gorm connection. Both postgres and sqlite work.
func NewStore(db *gorm.DB, opts Options) Store {
	if opts.InsertChunkSize <= 0 {
		opts.InsertChunkSize = DefaultInsertChunkSize
	}
	return &gormStore{db: db, chunkSize: opts.InsertChunkSize}
}

// GetCursor returns the value stored under key, or "" when unset
func (s *gormStore) GetCursor(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cursor %s: %w", key, err)
	}
	return kv.Value, nil
}

// SetCursor stores value under key
func (s *gormStore) SetCursor(ctx context.Context, key string, value string) error {
	kv := schema.KeyValueStore{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set cursor %s: %w", key, err)
	}
	return nil
}

// InsertBuys persists events chunk by chunk. Each chunk commits on its own so a
// failure leaves the earlier chunks stored and reported in Persisted.
func (s *gormStore) InsertBuys(ctx context.Context, events []domain.BuyEvent) (InsertResult, error) {
	var result InsertResult

	for start := 0; start < len(events); start += s.chunkSize {
		end := min(start+s.chunkSize, len(events))

		rows := make([]schema.Buy, 0, end-start)
		for _, e := range events[start:end] {
			rows = append(rows, buyRow(e))
		}

		tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "post_token"}, {Name: "buyer"}},
			DoNothing: true,
		}).Create(&rows)
		if tx.Error != nil {
			return result, fmt.Errorf("failed to insert buys %d-%d: %w", start, end, tx.Error)
		}

		result.Persisted = end
		result.Inserted += tx.RowsAffected
	}

	logger.DebugCtx(ctx, "Inserted buys",
		zap.Int("events", len(events)),
		zap.Int64("inserted", result.Inserted))

	return result, nil
}

// CountBuys returns the number of persisted buy events
func (s *gormStore) CountBuys(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&schema.Buy{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count buys: %w", err)
	}
	return count, nil
}

// GetIdentity returns the identity row of address, or nil when absent
func (s *gormStore) GetIdentity(ctx context.Context, address string) (*domain.Identity, error) {
	var row schema.Identity
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	id := identityFromRow(row)
	return &id, nil
}

// GetIdentities returns the identity rows that exist among addresses
func (s *gormStore) GetIdentities(ctx context.Context, addresses []string) ([]domain.Identity, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	var rows []schema.Identity
	if err := s.db.WithContext(ctx).Where("address IN ?", addresses).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get identities: %w", err)
	}

	identities := make([]domain.Identity, 0, len(rows))
	for _, row := range rows {
		identities = append(identities, identityFromRow(row))
	}
	return identities, nil
}

// SaveIdentity upserts an identity, last write wins
func (s *gormStore) SaveIdentity(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return fmt.Errorf("identity is nil")
	}

	row := identityRow(*identity)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"manual_name", "base_name", "ens", "farcaster_username", "farcaster_fid",
			"zora_handle", "avatar_url", "is_contract", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save identity %s: %w", identity.Address, err)
	}
	return nil
}

// GetAddressByName finds the address whose name fields match name, case-insensitively.
// A leading "@" is ignored.
func (s *gormStore) GetAddressByName(ctx context.Context, name string) (string, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
	if name == "" {
		return "", domain.ErrIdentityNotFound
	}

	conditions := make([]string, 0, len(nameColumns))
	args := make([]interface{}, 0, len(nameColumns))
	for _, col := range nameColumns {
		conditions = append(conditions, fmt.Sprintf("LOWER(%s) = ?", col))
		args = append(args, name)
	}

	var row schema.Identity
	err := s.db.WithContext(ctx).
		Where(strings.Join(conditions, " OR "), args...).
		Order("updated_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrIdentityNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to find address by name: %w", err)
	}
	return row.Address, nil
}

type leaderboardRow struct {
	Buyer        string
	BuyCount     int64
	UniqueTokens int64
	LastActive   flexTime
}

// GetLeaderboard ranks buyers active since the given time by buy count.
// Ties are broken by the most recent activity.
func (s *gormStore) GetLeaderboard(ctx context.Context, since time.Time, limit int) ([]LeaderboardEntry, error) {
	var rows []leaderboardRow
	err := s.db.WithContext(ctx).Model(&schema.Buy{}).
		Select("buyer, COUNT(*) AS buy_count, COUNT(DISTINCT post_token) AS unique_tokens, MAX(block_time) AS last_active").
		Where("block_time >= ?", since.UTC()).
		Group("buyer").
		Order("buy_count DESC, last_active DESC, buyer ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	addresses := make([]string, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, LeaderboardEntry{
			Address:      r.Buyer,
			BuyCount:     r.BuyCount,
			UniqueTokens: r.UniqueTokens,
			LastActive:   r.LastActive.Time,
		})
		addresses = append(addresses, r.Buyer)
	}

	identities, err := s.GetIdentities(ctx, addresses)
	if err != nil {
		return nil, err
	}
	byAddress := make(map[string]*domain.Identity, len(identities))
	for i := range identities {
		byAddress[identities[i].Address] = &identities[i]
	}
	for i := range entries {
		entries[i].Identity = byAddress[entries[i].Address]
	}

	return entries, nil
}

// GetActivityFeed returns the newest buys, for one buyer when buyer is not empty
func (s *gormStore) GetActivityFeed(ctx context.Context, buyer string, limit int) ([]domain.BuyEvent, error) {
	q := s.db.WithContext(ctx).Order("block_time DESC, id DESC").Limit(limit)
	if buyer != "" {
		q = q.Where("buyer = ?", buyer)
	}

	var rows []schema.Buy
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get activity feed: %w", err)
	}

	events := make([]domain.BuyEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, buyFromRow(row))
	}
	return events, nil
}

// GetRecentBuyers returns distinct buyers since the given time, most recent first
func (s *gormStore) GetRecentBuyers(ctx context.Context, since time.Time, limit int) ([]string, error) {
	var rows []struct {
		Buyer      string
		LastActive flexTime
	}
	q := s.db.WithContext(ctx).Model(&schema.Buy{}).
		Select("buyer, MAX(block_time) AS last_active").
		Where("block_time >= ?", since.UTC()).
		Group("buyer").
		Order("last_active DESC, buyer ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent buyers: %w", err)
	}

	buyers := make([]string, 0, len(rows))
	for _, r := range rows {
		buyers = append(buyers, r.Buyer)
	}
	return buyers, nil
}

// GetProfileStats aggregates the buys of one buyer
func (s *gormStore) GetProfileStats(ctx context.Context, buyer string) (*ProfileStats, error) {
	var row struct {
		TotalBuys    int64
		UniqueTokens int64
		FirstBuy     flexTime
		LastBuy      flexTime
	}
	err := s.db.WithContext(ctx).Model(&schema.Buy{}).
		Select("COUNT(*) AS total_buys, COUNT(DISTINCT post_token) AS unique_tokens, MIN(block_time) AS first_buy, MAX(block_time) AS last_buy").
		Where("buyer = ?", buyer).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get profile stats: %w", err)
	}

	return &ProfileStats{
		Address:      buyer,
		TotalBuys:    row.TotalBuys,
		UniqueTokens: row.UniqueTokens,
		FirstBuy:     row.FirstBuy.ptr(),
		LastBuy:      row.LastBuy.ptr(),
	}, nil
}

// Ping checks connectivity
func (s *gormStore) Ping(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func buyRow(e domain.BuyEvent) schema.Buy {
	var extra datatypes.JSONMap
	if len(e.Extra) > 0 {
		extra = datatypes.JSONMap(e.Extra)
	}
	return schema.Buy{
		TxHash:    e.TxHash,
		PostToken: e.PostToken,
		Buyer:     e.Buyer,
		BlockTime: e.BlockTime.UTC(),
		Source:    string(e.Source),
		Extra:     extra,
	}
}

func buyFromRow(row schema.Buy) domain.BuyEvent {
	return domain.BuyEvent{
		Buyer:     row.Buyer,
		PostToken: row.PostToken,
		BlockTime: row.BlockTime.UTC(),
		TxHash:    row.TxHash,
		Source:    domain.BuySource(row.Source),
		Extra:     map[string]interface{}(row.Extra),
	}
}

func identityRow(id domain.Identity) schema.Identity {
	return schema.Identity{
		Address:           id.Address,
		ManualName:        id.ManualName,
		BaseName:          id.BaseName,
		ENSName:           id.ENSName,
		FarcasterUsername: id.FarcasterUsername,
		FarcasterFID:      id.FarcasterFID,
		ZoraHandle:        id.ZoraHandle,
		AvatarURL:         id.AvatarURL,
		IsContract:        id.IsContract,
		UpdatedAt:         id.UpdatedAt.UTC(),
	}
}

func identityFromRow(row schema.Identity) domain.Identity {
	return domain.Identity{
		Address:           row.Address,
		ManualName:        row.ManualName,
		BaseName:          row.BaseName,
		ENSName:           row.ENSName,
		FarcasterUsername: row.FarcasterUsername,
		FarcasterFID:      row.FarcasterFID,
		ZoraHandle:        row.ZoraHandle,
		AvatarURL:         row.AvatarURL,
		IsContract:        row.IsContract,
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}
