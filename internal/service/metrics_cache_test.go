package service

import (
	"Beacon/internal/pkg/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCacheGetMissingReturnsZeroValues(t *testing.T) {
	cache := NewPlatformMetricsCache(newMemStore())

	metrics, err := cache.Get(context.Background(), "Facebook")
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.Followers)
	assert.Equal(t, 0, metrics.Delta)
	assert.Empty(t, metrics.LastUpdated)
}

func TestMetricsCacheColdUpdateHasZeroDelta(t *testing.T) {
	cache := NewPlatformMetricsCache(newMemStore())
	ctx := context.Background()

	require.NoError(t, cache.Update(ctx, "Facebook", 100, nil))

	metrics, err := cache.Get(ctx, "Facebook")
	require.NoError(t, err)
	assert.Equal(t, 100, metrics.Followers)
	assert.Equal(t, 0, metrics.Delta)
	assert.NotEmpty(t, metrics.LastUpdated)
}

func TestMetricsCacheSecondUpdateComputesDelta(t *testing.T) {
	cache := NewPlatformMetricsCache(newMemStore())
	ctx := context.Background()

	require.NoError(t, cache.Update(ctx, "Facebook", 100, nil))
	require.NoError(t, cache.Update(ctx, "Facebook", 120, nil))

	metrics, err := cache.Get(ctx, "Facebook")
	require.NoError(t, err)
	assert.Equal(t, 120, metrics.Followers)
	assert.Equal(t, 20, metrics.Delta)
}

func TestMetricsCacheNegativeDeltaOnDrop(t *testing.T) {
	cache := NewPlatformMetricsCache(newMemStore())
	ctx := context.Background()

	require.NoError(t, cache.Update(ctx, "Facebook", 100, nil))
	require.NoError(t, cache.Update(ctx, "Facebook", 90, nil))

	metrics, err := cache.Get(ctx, "Facebook")
	require.NoError(t, err)
	assert.Equal(t, -10, metrics.Delta)
}

func TestMetricsCacheExplicitDeltaWins(t *testing.T) {
	cache := NewPlatformMetricsCache(newMemStore())
	ctx := context.Background()

	require.NoError(t, cache.Update(ctx, "Facebook", 100, nil))
	delta := 7
	require.NoError(t, cache.Update(ctx, "Facebook", 500, &delta))

	metrics, err := cache.Get(ctx, "Facebook")
	require.NoError(t, err)
	assert.Equal(t, 500, metrics.Followers)
	assert.Equal(t, 7, metrics.Delta)
}

func TestMetricsCacheClearRemovesAllKeys(t *testing.T) {
	store := newMemStore()
	cache := NewPlatformMetricsCache(store)
	ctx := context.Background()

	require.NoError(t, cache.Update(ctx, "Facebook", 100, nil))
	require.NoError(t, cache.Clear(ctx, "Facebook"))

	assert.Empty(t, store.keysWithPrefix(consts.PlatformFollowersKey))
	assert.Empty(t, store.keysWithPrefix(consts.PlatformDeltaKey))
	assert.Empty(t, store.keysWithPrefix(consts.PlatformLastUpdatedKey))

	metrics, err := cache.Get(ctx, "Facebook")
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.Followers)
	assert.Empty(t, metrics.LastUpdated)
}
