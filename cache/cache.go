package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedCache is a small cache-aside wrapper for serialized feed pages.
// A nil *FeedCache is a valid no-op cache, so the server runs without
// redis configured.
type FeedCache struct {
	cli *redis.Client
	ttl time.Duration
}

func New(addr string, db int, ttlSeconds int) *FeedCache {
	if addr == "" {
		return nil
	}
	return &FeedCache{
		cli: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl: time.Duration(ttlSeconds) * time.Second,
	}
}

func (c *FeedCache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.cli.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *FeedCache) Set(ctx context.Context, key, val string) {
	if c == nil {
		return
	}
	_ = c.cli.Set(ctx, key, val, c.ttl).Err()
}

func (c *FeedCache) Del(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	_ = c.cli.Del(ctx, keys...).Err()
}
