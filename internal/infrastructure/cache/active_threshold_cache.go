// Package cache provides the read-side cache for enforcement consumers.
package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// ActiveThresholdCache caches the active threshold list in Redis for the
// enforcement components that read it on every request. The cache is
// invalidated on every committed mutation and additionally expires after
// a short TTL, which bounds staleness if an invalidation is lost.
type ActiveThresholdCache struct {
	client *redis.Client
	store  *service.ThresholdStore
	log    logger.Logger
}

// NewActiveThresholdCache creates the cache and registers its
// invalidation hook on the store.
func NewActiveThresholdCache(client *redis.Client, store *service.ThresholdStore, log logger.Logger) *ActiveThresholdCache {
	c := &ActiveThresholdCache{
		client: client,
		store:  store,
		log:    log.WithComponent("active_threshold_cache"),
	}
	store.AddCommitHook(func(_ *models.AuditEntry, _ *models.Threshold) {
		// Hook runs outside the store's critical section.
		c.Invalidate(context.Background())
	})
	return c
}

// GetActive returns the active thresholds, serving from Redis when warm.
// Cache failures degrade to a direct store read.
func (c *ActiveThresholdCache) GetActive(ctx context.Context) ([]*models.Threshold, error) {
	raw, err := c.client.Get(ctx, constants.CacheKeyActiveThresholds).Bytes()
	if err == nil {
		var cached []*models.Threshold
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn(ctx, "Discarding corrupt cache entry",
			logger.String("key", constants.CacheKeyActiveThresholds))
	} else if err != redis.Nil {
		c.log.Warn(ctx, "Cache read failed, falling back to store",
			logger.Err(err))
	}

	all, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*models.Threshold, 0, len(all))
	for _, t := range all {
		if t.IsActive {
			active = append(active, t)
		}
	}

	if payload, err := json.Marshal(active); err == nil {
		if err := c.client.Set(ctx, constants.CacheKeyActiveThresholds, payload, constants.ActiveThresholdCacheTTL).Err(); err != nil {
			c.log.Warn(ctx, "Cache write failed", logger.Err(err))
		}
	}
	return active, nil
}

// Invalidate drops the cached list.
func (c *ActiveThresholdCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, constants.CacheKeyActiveThresholds).Err(); err != nil {
		c.log.Warn(ctx, "Cache invalidation failed", logger.Err(err))
	}
}
