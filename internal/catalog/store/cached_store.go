package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abgdnv/catalog/internal/catalog/store/db"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache TTL constants
const (
	categoryCacheTTL     = 30 * time.Minute // categories rarely change
	categoryListCacheTTL = 15 * time.Minute
)

// CachedCategoryStore is a read-through cache decorator around a
// CategoryStore. Lookups are served from Redis when possible, writes go to
// the delegate and invalidate the affected keys. Cache failures are treated
// as misses, so a Redis outage degrades to direct database access.
type CachedCategoryStore struct {
	delegate CategoryStore
	redis    *redis.Client
}

// NewCachedCategoryStore wraps a CategoryStore with Redis caching.
func NewCachedCategoryStore(delegate CategoryStore, rdb *redis.Client) *CachedCategoryStore {
	return &CachedCategoryStore{
		delegate: delegate,
		redis:    rdb,
	}
}

func categoryKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:category:%s", id)
}

func categoryListKey(offset, limit int32) string {
	return fmt.Sprintf("catalog:categories:%d:%d", offset, limit)
}

// FindByID returns the cached category or falls through to the delegate.
func (c *CachedCategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*db.Category, error) {
	key := categoryKey(id)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var category db.Category
		if err := json.Unmarshal([]byte(val), &category); err == nil {
			return &category, nil
		}
	}

	category, err := c.delegate.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(category); err == nil {
		c.redis.Set(ctx, key, data, categoryCacheTTL)
	}
	return category, nil
}

// FindAll returns the cached page or falls through to the delegate.
func (c *CachedCategoryStore) FindAll(ctx context.Context, offset, limit int32) ([]db.Category, error) {
	key := categoryListKey(offset, limit)
	if val, err := c.redis.Get(ctx, key).Result(); err == nil {
		var categories []db.Category
		if err := json.Unmarshal([]byte(val), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := c.delegate.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(categories); err == nil {
		c.redis.Set(ctx, key, data, categoryListCacheTTL)
	}
	return categories, nil
}

// Create delegates and invalidates the list caches.
func (c *CachedCategoryStore) Create(ctx context.Context, name, slug string, parentID *uuid.UUID) (*db.Category, error) {
	category, err := c.delegate.Create(ctx, name, slug, parentID)
	if err != nil {
		return nil, err
	}
	c.invalidateLists(ctx)
	return category, nil
}

// CollectTreeProducts is not cached: the result depends on the whole subtree
// and is only used on the deletion path.
func (c *CachedCategoryStore) CollectTreeProducts(ctx context.Context, ids []uuid.UUID) ([]db.Product, error) {
	return c.delegate.CollectTreeProducts(ctx, ids)
}

// DeleteCascade delegates and flushes the category caches. The cascade can
// remove descendants that were never listed in ids, so every category key is
// dropped rather than just the roots.
func (c *CachedCategoryStore) DeleteCascade(ctx context.Context, ids []uuid.UUID) (*CascadeResult, error) {
	result, err := c.delegate.DeleteCascade(ctx, ids)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, "catalog:category:*")
	c.invalidateLists(ctx)

	return result, nil
}

func (c *CachedCategoryStore) invalidateLists(ctx context.Context) {
	c.invalidate(ctx, "catalog:categories:*")
}

func (c *CachedCategoryStore) invalidate(ctx context.Context, pattern string) {
	keys, err := c.redis.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.redis.Del(ctx, keys...)
}
