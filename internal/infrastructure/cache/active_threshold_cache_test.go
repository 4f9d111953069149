package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/domain/repository"
	"github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/internal/infrastructure/persistence/memory"
	"github.com/promoflow/threshold-service/pkg/constants"
	"github.com/promoflow/threshold-service/pkg/logger"
)

func newCacheFixture(t *testing.T) (*ActiveThresholdCache, *service.ThresholdStore, repository.Repositories, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	backend := memory.New()
	repos := backend.Repositories()
	store := service.NewThresholdStore(backend, repos, service.NewStateBarrier(), logger.NewNoop())
	return NewActiveThresholdCache(client, store, logger.NewNoop()), store, repos, mr
}

func seed(t *testing.T, repos repository.Repositories, id string, active bool) {
	t.Helper()
	require.NoError(t, repos.Thresholds.Create(context.Background(), &models.Threshold{
		ID:           id,
		Category:     constants.CategoryRateLimit,
		Name:         id,
		Value:        100,
		MinValue:     10,
		MaxValue:     1000,
		DefaultValue: 100,
		IsActive:     active,
	}))
}

func TestGetActiveFiltersAndCaches(t *testing.T) {
	cache, _, repos, mr := newCacheFixture(t)
	seed(t, repos, "on", true)
	seed(t, repos, "off", false)
	ctx := context.Background()

	active, err := cache.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].ID)

	assert.True(t, mr.Exists(constants.CacheKeyActiveThresholds))

	// A direct repository write bypasses the store, so the cached copy
	// keeps serving until the TTL expires.
	seed(t, repos, "late", true)
	cached, err := cache.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	mr.FastForward(constants.ActiveThresholdCacheTTL)
	refreshed, err := cache.GetActive(ctx)
	require.NoError(t, err)
	assert.Len(t, refreshed, 2)
}

func TestCommitInvalidatesCache(t *testing.T) {
	cache, store, repos, mr := newCacheFixture(t)
	seed(t, repos, "rl:max", true)
	ctx := context.Background()

	_, err := cache.GetActive(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(constants.CacheKeyActiveThresholds))

	v := 200.0
	_, err = store.Apply(ctx, "rl:max", func(*models.Threshold) (*service.Mutation, error) {
		return &service.Mutation{
			NewValue:       &v,
			Actor:          "tester",
			Reason:         "test",
			AdjustmentType: constants.AdjustmentManual,
		}, nil
	})
	require.NoError(t, err)

	assert.False(t, mr.Exists(constants.CacheKeyActiveThresholds))

	refreshed, err := cache.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, refreshed, 1)
	assert.Equal(t, 200.0, refreshed[0].Value)
}

func TestGetActiveFallsBackWhenRedisDown(t *testing.T) {
	cache, _, repos, mr := newCacheFixture(t)
	seed(t, repos, "rl:max", true)
	mr.Close()

	active, err := cache.GetActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
