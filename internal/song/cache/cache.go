package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tunedeck/tunedeck/internal/song/domain"
	"github.com/tunedeck/tunedeck/pkg/logger"
)

const listKey = "songs:list"

// ListCache caches the full catalog listing in Redis. A nil client disables
// caching; every call degrades to a miss.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a new list cache
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get returns the cached listing, or ok=false on miss or error.
func (c *ListCache) Get(ctx context.Context) ([]domain.Song, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn(ctx).Err(err).Msg("Song list cache read failed")
		}
		return nil, false
	}

	var songs []domain.Song
	if err := json.Unmarshal(payload, &songs); err != nil {
		logger.Warn(ctx).Err(err).Msg("Song list cache payload corrupt")
		return nil, false
	}

	return songs, true
}

// Set stores the listing. Failures are logged, not surfaced; the cache is
// best-effort.
func (c *ListCache) Set(ctx context.Context, songs []domain.Song) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(songs)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, listKey, payload, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Song list cache write failed")
	}
}

// Invalidate drops the cached listing. Called after every upload.
func (c *ListCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, listKey).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Song list cache invalidation failed")
	}
}
