package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const eventsKeyPrefix = "catalog:events:"

// EventCache stores encoded event lists per category.
type EventCache interface {
	Get(ctx context.Context, category string) ([]byte, bool, error)
	Set(ctx context.Context, category string, payload []byte) error
	Invalidate(ctx context.Context) error
}

type RedisEventCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisEventCache(client *redis.Client, ttl time.Duration) *RedisEventCache {
	return &RedisEventCache{Client: client, TTL: ttl}
}

func eventsKey(category string) string {
	if category == "" {
		category = "all"
	}
	return eventsKeyPrefix + category
}

func (c *RedisEventCache) Get(ctx context.Context, category string) ([]byte, bool, error) {
	payload, err := c.Client.Get(ctx, eventsKey(category)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read catalog cache: %w", err)
	}
	return payload, true, nil
}

func (c *RedisEventCache) Set(ctx context.Context, category string, payload []byte) error {
	if err := c.Client.Set(ctx, eventsKey(category), payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write catalog cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached category.
func (c *RedisEventCache) Invalidate(ctx context.Context) error {
	iter := c.Client.Scan(ctx, 0, eventsKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan catalog cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}
