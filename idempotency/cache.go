// Package idempotency wraps Redis as a fast path in front of the
// authoritative Postgres idempotency_records table, and provides the
// distributed leader lock the auto-confirmation sweep (cmd/sweeper)
// uses so only one replica runs it at a time.
package idempotency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func cacheKey(tenant, key string) string {
	return fmt.Sprintf("idem:%s:%s", tenant, key)
}

// Get returns the cached response for (tenant, key), or nil if absent.
func (c *Cache) Get(ctx context.Context, tenant, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, cacheKey(tenant, key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency cache get: %w", err)
	}
	return data, nil
}

// Set stores response for (tenant, key) with the standard 24h TTL.
func (c *Cache) Set(ctx context.Context, tenant, key string, response []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, cacheKey(tenant, key), response, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency cache set: %w", err)
	}
	return nil
}

// TryAcquireLeader attempts the SETNX distributed lock that gates the
// auto-confirmation sweep so only one replica runs it concurrently.
func (c *Cache) TryAcquireLeader(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	payload, _ := json.Marshal(map[string]any{"acquired_at": time.Now().UTC()})
	ok, err := c.client.SetNX(ctx, "leader:"+name, payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire leader lock: %w", err)
	}
	return ok, nil
}

func (c *Cache) ReleaseLeader(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, "leader:"+name).Err(); err != nil {
		return fmt.Errorf("release leader lock: %w", err)
	}
	return nil
}
