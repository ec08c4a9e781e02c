// Package cache provides an optional redis-backed cache for the active
// guest list. All methods are nil-receiver safe so callers never need to
// branch on whether caching is configured.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/rsvp-service/internal/domain"
)

const listKey = "guests:active"

// GuestListCache caches the serialized active guest list with a short TTL.
type GuestListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuestListCache wraps the given client. A nil client yields a nil
// cache, which disables caching.
func NewGuestListCache(client *redis.Client, ttl time.Duration) *GuestListCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &GuestListCache{client: client, ttl: ttl}
}

// Get returns the cached list, or (nil, false) on miss or any cache error.
func (c *GuestListCache) Get(ctx context.Context) ([]domain.Guest, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		return nil, false
	}
	var guests []domain.Guest
	if err := json.Unmarshal(data, &guests); err != nil {
		return nil, false
	}
	return guests, true
}

// Set stores the list. Cache errors are swallowed; the store stays the
// source of truth.
func (c *GuestListCache) Set(ctx context.Context, guests []domain.Guest) {
	if c == nil {
		return
	}
	data, err := json.Marshal(guests)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, listKey, data, c.ttl).Err()
}

// Invalidate drops the cached list after a mutation.
func (c *GuestListCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	_ = c.client.Del(ctx, listKey).Err()
}
