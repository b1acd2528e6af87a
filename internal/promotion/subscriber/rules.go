package subscriber

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ruleCacheKeyFmt is the key under which the catalog caches the evaluated
// promotion rules of a single channel.
const ruleCacheKeyFmt = "promotions:rules:channel:%s"

// RedisRuleInvalidator drops cached rule evaluations from Redis.
type RedisRuleInvalidator struct {
	rdb *redis.Client
}

func NewRedisRuleInvalidator(rdb *redis.Client) *RedisRuleInvalidator {
	return &RedisRuleInvalidator{rdb: rdb}
}

// Invalidate deletes the cached rules of every given channel in one round trip.
func (i *RedisRuleInvalidator) Invalidate(ctx context.Context, channelIDs []uuid.UUID) error {
	if len(channelIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		keys = append(keys, fmt.Sprintf(ruleCacheKeyFmt, id))
	}
	if err := i.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete rule cache keys: %w", err)
	}
	return nil
}
