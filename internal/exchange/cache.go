package exchange

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/redis"
)

// RateCache stores resolved exchange rates keyed by the ordered
// (origin,destination) pair. Concurrent same-key refreshes after expiry are
// tolerated; resolution is an idempotent pure read.
type RateCache interface {
	Get(ctx context.Context, origin, destination string) (*Result, bool)
	Set(ctx context.Context, origin, destination string, result Result)
	Invalidate(ctx context.Context, origin, destination string)
}

type memoryEntry struct {
	result    Result
	expiresAt time.Time
}

// MemoryCache is the in-process fallback cache used when Redis is not
// configured. The clock is injectable so TTL expiry is testable.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache builds a TTL cache. A nil now falls back to time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, origin, destination string) (*Result, bool) {
	key := cacheKey(origin, destination)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	result := entry.result
	return &result, true
}

func (c *MemoryCache) Set(_ context.Context, origin, destination string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(origin, destination)] = memoryEntry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *MemoryCache) Invalidate(_ context.Context, origin, destination string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(origin, destination))
}

// RedisCache stores resolved rates in Redis with the configured TTL. Cache
// failures degrade to misses; they never fail a pricing computation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logg   *logger.Logger
}

// NewRedisCache wires a Redis-backed rate cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, logg *logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logg: logg}
}

func (c *RedisCache) Get(ctx context.Context, origin, destination string) (*Result, bool) {
	raw, err := c.client.Get(ctx, c.client.RateKey(origin, destination))
	if err != nil {
		if !redis.IsMiss(err) && c.logg != nil {
			c.logg.Warn(ctx, "rate cache read failed: "+err.Error())
		}
		return nil, false
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "rate cache entry corrupt, dropping: "+err.Error())
		}
		_ = c.client.Del(ctx, c.client.RateKey(origin, destination))
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, origin, destination string, result Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.client.RateKey(origin, destination), string(payload), c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "rate cache write failed: "+err.Error())
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, origin, destination string) {
	if err := c.client.Del(ctx, c.client.RateKey(origin, destination)); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "rate cache invalidate failed: "+err.Error())
	}
}

func cacheKey(origin, destination string) string {
	return strings.ToUpper(strings.TrimSpace(origin)) + ":" + strings.ToUpper(strings.TrimSpace(destination))
}
