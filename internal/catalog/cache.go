// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/granitespinoza/aqua-pet-palette-sub000/internal/store"
	"github.com/redis/go-redis/v9"
)

// cachedList is a remembered remote response, tagged with the filter that
// produced it and when it was fetched.
type cachedList struct {
	Filter    Filter    `json:"filter"`
	Products  []Product `json:"products"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Cache remembers the most recent successful remote response per filter set
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*cachedList, bool)
	Put(ctx context.Context, fingerprint string, entry cachedList) error
}

// RedisCache keeps catalog responses in Redis with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed catalog cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements Cache
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*cachedList, bool) {
	raw, err := c.client.Get(ctx, c.key(fingerprint)).Result()
	if err != nil {
		return nil, false
	}

	var entry cachedList
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.client.Del(ctx, c.key(fingerprint))
		return nil, false
	}
	return &entry, true
}

// Put implements Cache
func (c *RedisCache) Put(ctx context.Context, fingerprint string, entry cachedList) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode catalog cache entry: %w", err)
	}
	return c.client.Set(ctx, c.key(fingerprint), encoded, c.ttl).Err()
}

func (c *RedisCache) key(fingerprint string) string {
	return fmt.Sprintf("catalog:list:%s", fingerprint)
}

// StoreCache keeps catalog responses in the local store. Used when no Redis
// cache is configured so degraded reads still have a middle tier.
type StoreCache struct {
	store *store.Store
}

// NewStoreCache creates a local-store-backed catalog cache
func NewStoreCache(s *store.Store) *StoreCache {
	return &StoreCache{store: s}
}

// Get implements Cache
func (c *StoreCache) Get(_ context.Context, fingerprint string) (*cachedList, bool) {
	var entry cachedList
	found, err := c.store.Get(store.CatalogCacheKey(fingerprint), &entry)
	if err != nil || !found {
		return nil, false
	}
	return &entry, true
}

// Put implements Cache
func (c *StoreCache) Put(_ context.Context, fingerprint string, entry cachedList) error {
	return c.store.Put(store.CatalogCacheKey(fingerprint), entry)
}
