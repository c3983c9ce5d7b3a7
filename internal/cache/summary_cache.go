package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Dashboard summaries are cheap to rebuild, so the TTL stays short and every
// bill write for a user drops all of that user's cached months.
const SummaryCacheTTL = 5 * time.Minute

type SummaryCache struct {
	client *redis.Client
}

func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// Get summary from cache
func (c *SummaryCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// Set summary to cache with TTL
func (c *SummaryCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, SummaryCacheTTL).Err()
}

// Invalidate drops every cached summary for the user.
func (c *SummaryCache) Invalidate(ctx context.Context, userID int) error {
	pattern := fmt.Sprintf("summary:user:%d:*", userID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Build cache key for a user's monthly summary
func SummaryKey(userID int, month string) string {
	return fmt.Sprintf("summary:user:%d:%s", userID, month)
}
