package service

import (
	"Beacon/internal/pkg/consts"
	"context"
	"strconv"
	"time"
)

// KVStore 键值缓存抽象，生产环境由 redis 实现
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error)
	Delete(ctx context.Context, keys ...string) error
}

// CachedMetrics 平台的实时指标视图，完全来自缓存
type CachedMetrics struct {
	Followers   int    `json:"followers"`
	Delta       int    `json:"delta"`
	LastUpdated string `json:"last_updated"`
}

// PlatformMetricsCache 平台粉丝数/增量/更新时间三件套的集中管理，
// 不设过期时间，新鲜度由调度器保证而非缓存淘汰
type PlatformMetricsCache interface {
	Get(ctx context.Context, platformName string) (*CachedMetrics, error)
	Update(ctx context.Context, platformName string, followers int, delta *int) error
	Clear(ctx context.Context, platformName string) error
}

type platformMetricsCacheImpl struct {
	store KVStore
}

func NewPlatformMetricsCache(store KVStore) PlatformMetricsCache {
	return &platformMetricsCacheImpl{store: store}
}

// Get 任一字段未写入时返回零值，不视为错误
func (s *platformMetricsCacheImpl) Get(ctx context.Context, platformName string) (*CachedMetrics, error) {
	metrics := &CachedMetrics{}

	followersStr, err := s.store.Get(ctx, consts.PlatformFollowersKey+platformName)
	if err != nil {
		return nil, err
	}
	if followersStr != "" {
		metrics.Followers, _ = strconv.Atoi(followersStr)
	}

	deltaStr, err := s.store.Get(ctx, consts.PlatformDeltaKey+platformName)
	if err != nil {
		return nil, err
	}
	if deltaStr != "" {
		metrics.Delta, _ = strconv.Atoi(deltaStr)
	}

	metrics.LastUpdated, err = s.store.Get(ctx, consts.PlatformLastUpdatedKey+platformName)
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

// Update 未显式给出增量时与上一次缓存值求差，冷缓存按 0 处理
func (s *platformMetricsCacheImpl) Update(ctx context.Context, platformName string, followers int, delta *int) error {
	followersKey := consts.PlatformFollowersKey + platformName

	if delta == nil {
		previousStr, err := s.store.Get(ctx, followersKey)
		if err != nil {
			return err
		}
		d := 0
		if previousStr != "" {
			previous, convErr := strconv.Atoi(previousStr)
			if convErr == nil {
				d = followers - previous
			}
		}
		delta = &d
	}

	if err := s.store.Set(ctx, followersKey, strconv.Itoa(followers), 0); err != nil {
		return err
	}
	if err := s.store.Set(ctx, consts.PlatformDeltaKey+platformName, strconv.Itoa(*delta), 0); err != nil {
		return err
	}
	return s.store.Set(ctx, consts.PlatformLastUpdatedKey+platformName,
		time.Now().Format(time.RFC3339), 0)
}

// Clear 三个键作为一个整体清理
func (s *platformMetricsCacheImpl) Clear(ctx context.Context, platformName string) error {
	return s.store.Delete(ctx,
		consts.PlatformFollowersKey+platformName,
		consts.PlatformDeltaKey+platformName,
		consts.PlatformLastUpdatedKey+platformName,
	)
}
