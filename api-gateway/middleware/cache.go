package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tunedeck/tunedeck/pkg/logger"
)

// CacheConfig holds response cache configuration
type CacheConfig struct {
	DefaultTTL       time.Duration
	CacheableMethods []string
	CacheableStatus  []int
}

// DefaultCacheConfig returns the default response cache configuration.
// Only 200s are cached: listing endpoints return 404 when empty and a
// cached 404 would mask the first upload.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:       30 * time.Second,
		CacheableMethods: []string{"GET", "HEAD"},
		CacheableStatus:  []int{200},
	}
}

// CacheMiddleware caches GET responses in Redis and drops the whole cache
// whenever a mutation goes through the gateway.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}

		if !contains(config.CacheableMethods, c.Method()) {
			err := c.Next()
			if c.Response().StatusCode() < 400 {
				invalidateAll(redisClient)
			}
			return err
		}

		cacheKey := cacheKeyFor(c)
		ctx := context.Background()

		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cachedResponse) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Str("cache_key", cacheKey).
				Msg("Cache hit")

			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cachedResponse)
		}

		err = c.Next()

		if containsInt(config.CacheableStatus, c.Response().StatusCode()) {
			responseBody := c.Response().Body()
			if setErr := redisClient.Set(ctx, cacheKey, responseBody, config.DefaultTTL).Err(); setErr != nil {
				logger.Logger.Warn().
					Err(setErr).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
			}
			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// cacheKeyFor hashes method, path, query and caller identity so per-user
// responses never leak across users.
func cacheKeyFor(c *fiber.Ctx) string {
	keyComponents := fmt.Sprintf("%s:%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
		c.Get("Authorization"),
	)

	hash := sha256.Sum256([]byte(keyComponents))
	return "cache:" + hex.EncodeToString(hash[:])
}

func invalidateAll(redisClient *redis.Client) {
	ctx := context.Background()
	iter := redisClient.Scan(ctx, 0, "cache:*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Cache invalidation scan failed")
		return
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Cache invalidation failed")
			return
		}
		logger.Logger.Debug().
			Int("count", len(keys)).
			Msg("Gateway cache invalidated")
	}
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
