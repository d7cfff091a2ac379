package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/feral-file/ff-buyer-indexer/internal/adapter"
	"github.com/feral-file/ff-buyer-indexer/internal/domain"
)

// Store is the persistence the cache reads through
type Store interface {
	// GetIdentity returns nil when the address has no row
	GetIdentity(ctx context.Context, address string) (*domain.Identity, error)
	GetIdentities(ctx context.Context, addresses []string) ([]domain.Identity, error)
	SaveIdentity(ctx context.Context, identity *domain.Identity) error
}

// TTLPolicy decides whether a cached identity may still be served.
// Identities with a name live for Named, everything else for Unnamed.
type TTLPolicy struct {
	Named   time.Duration
	Unnamed time.Duration
}

// DefaultTTLPolicy keeps names for a day and retries negative results after half an hour
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{Named: 24 * time.Hour, Unnamed: 30 * time.Minute}
}

// Fresh reports whether identity is still valid at now
func (p TTLPolicy) Fresh(identity *domain.Identity, now time.Time) bool {
	if identity == nil || identity.UpdatedAt.IsZero() {
		return false
	}
	ttl := p.Unnamed
	if identity.HasName() {
		ttl = p.Named
	}
	return now.Sub(identity.UpdatedAt) < ttl
}

// CacheConfig configures the identity cache
type CacheConfig struct {
	TTL TTLPolicy
	// MemoryEntries enables an in-process layer in front of the store when positive
	MemoryEntries int
	MemoryTTL     time.Duration
}

// Cache serves identities from the store, applying the TTL policy at read time
type Cache struct {
	store  Store
	clock  adapter.Clock
	policy TTLPolicy
	memory *expirable.LRU[string, domain.Identity]
}

// NewCache creates a cache. It is created once per process and shared by all resolvers.
func NewCache(store Store, clock adapter.Clock, cfg CacheConfig) *Cache {
	c := &Cache{store: store, clock: clock, policy: cfg.TTL}
	if cfg.MemoryEntries > 0 {
		ttl := cfg.MemoryTTL
		if ttl <= 0 {
			ttl = cfg.TTL.Unnamed
		}
		c.memory = expirable.NewLRU[string, domain.Identity](cfg.MemoryEntries, nil, ttl)
	}
	return c
}

// Policy returns the TTL policy of the cache
func (c *Cache) Policy() TTLPolicy {
	return c.policy
}

// Get returns the fresh identity of address, or nil when absent or stale
func (c *Cache) Get(ctx context.Context, address string) (*domain.Identity, error) {
	now := c.clock.Now()

	if id, ok := c.fromMemory(address, now); ok {
		return &id, nil
	}

	id, err := c.store.GetIdentity(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity: %w", err)
	}
	if !c.policy.Fresh(id, now) {
		return nil, nil
	}

	c.remember(*id)
	return id, nil
}

// GetMany returns the fresh identities among addresses keyed by address
func (c *Cache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Identity, error) {
	now := c.clock.Now()
	result := make(map[string]domain.Identity, len(addresses))

	missing := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if id, ok := c.fromMemory(addr, now); ok {
			result[addr] = id
			continue
		}
		missing = append(missing, addr)
	}
	if len(missing) == 0 {
		return result, nil
	}

	ids, err := c.store.GetIdentities(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to read identities: %w", err)
	}
	for i := range ids {
		if !c.policy.Fresh(&ids[i], now) {
			continue
		}
		result[ids[i].Address] = ids[i]
		c.remember(ids[i])
	}
	return result, nil
}

// Put writes identity through to the store. The write is last-write-wins per address.
func (c *Cache) Put(ctx context.Context, identity *domain.Identity) error {
	if err := c.store.SaveIdentity(ctx, identity); err != nil {
		return fmt.Errorf("failed to save identity: %w", err)
	}
	c.remember(*identity)
	return nil
}

func (c *Cache) fromMemory(address string, now time.Time) (domain.Identity, bool) {
	if c.memory == nil {
		return domain.Identity{}, false
	}
	id, ok := c.memory.Get(address)
	if !ok || !c.policy.Fresh(&id, now) {
		return domain.Identity{}, false
	}
	return id, true
}

func (c *Cache) remember(identity domain.Identity) {
	if c.memory != nil {
		c.memory.Add(identity.Address, identity)
	}
}
