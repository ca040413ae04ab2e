package mission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// RedisCache is an AlertCache backed by Redis, for deployments where several
// API replicas share one cached listing. The value is the JSON-encoded alert
// list under CacheKey. Redis failures degrade to a direct store read; the
// cache is advisory, never a source of truth.
type RedisCache struct {
	client *redis.Client
	store  AlertStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a Redis-backed cache. ttl of zero means no expiry.
func NewRedisCache(client *redis.Client, store AlertStore, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached list, loading from the store and repopulating Redis
// on a miss. A Redis read failure falls through to the store.
func (c *RedisCache) Get(ctx context.Context) ([]models.Alert, error) {
	data, err := c.client.Get(ctx, CacheKey).Bytes()
	if err == nil {
		var alerts []models.Alert
		if jsonErr := json.Unmarshal(data, &alerts); jsonErr == nil {
			return alerts, nil
		}
		c.logger.Warn("Discarding corrupt cached alert list", zap.String("key", CacheKey))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("Redis read failed, loading from store", zap.Error(err))
	}

	alerts, err := c.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(alerts); err == nil {
		if err := c.client.Set(ctx, CacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Failed to repopulate alert cache", zap.Error(err))
		}
	}

	return alerts, nil
}

// Invalidate deletes the cached slot.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, CacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate alert cache: %w", err)
	}
	return nil
}
