// Package cache provides an optional Redis read cache for the catalog list.
// Stock and prices change rarely compared to how often the shop list is
// read, so short-TTL cached pages with explicit invalidation on inventory
// writes and checkouts are enough for the read path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const listTTL = 30 * time.Second

type Cache struct {
	rdb *redis.Client
}

// New connects to Redis; a nil *Cache is a valid no-op cache, so callers
// never need to branch on whether caching is configured.
func New(addr, password string) *Cache {
	return &Cache{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})}
}

// GetJSON loads a cached value into dest, reporting whether it was present.
// Cache errors degrade to a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, val any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, listTTL)
}

// InvalidatePrefix drops every key under the given prefix. Used after
// inventory writes and successful checkouts so cached catalog pages never
// outlive a stock or price change by more than one request.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache invalidation scan failed for %q: %v", prefix, err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Ping verifies the connection at startup.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("cache not configured")
	}
	return c.rdb.Ping(ctx).Err()
}
