package task

import (
	"Beacon/internal/fetcher"
	"Beacon/internal/model"
	"Beacon/internal/service"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPlatformRepo 只实现指标任务用到的查询
type stubPlatformRepo struct {
	platforms []*model.Platform
}

func (s *stubPlatformRepo) GetAll(context.Context) ([]*model.Platform, error) {
	return s.platforms, nil
}

func (s *stubPlatformRepo) GetAllActive(context.Context) ([]*model.Platform, error) {
	active := make([]*model.Platform, 0)
	for _, p := range s.platforms {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *stubPlatformRepo) GetByID(context.Context, string) (*model.Platform, error) {
	return nil, nil
}

func (s *stubPlatformRepo) GetByName(context.Context, string) (*model.Platform, error) {
	return nil, nil
}

func (s *stubPlatformRepo) Create(context.Context, *model.Platform) error { return nil }

func (s *stubPlatformRepo) Update(context.Context, *model.Platform) error { return nil }

func (s *stubPlatformRepo) Delete(context.Context, string) error { return nil }

func TestMetricsRunUpdatesCacheAndIsolatesFailures(t *testing.T) {
	repo := &stubPlatformRepo{platforms: []*model.Platform{
		{
			ID: "p1", Name: "Snapchat", IsActive: true,
			PageURL: "https://www.snapchat.com/add/example",
			Fetcher: &model.FetcherAssignment{SourceType: model.SourceSnapchat},
		},
		{
			// 未绑定抓取器，应作为失败单元出现在结果里
			ID: "p2", Name: "Orphan", IsActive: true,
			PageURL: "https://example.com",
		},
	}}

	store := newMemStore()
	cache := service.NewPlatformMetricsCache(store)
	fetchers := fetcher.NewRegistry(nil, fetcher.NewHTTPClient(&fetcher.Options{}))

	run := newMetricsRun(repo, fetchers, cache, Options{}.withDefaults())

	raw, err := run(context.Background())
	require.NoError(t, err)

	results, ok := raw.(map[string]*platformFetchResult)
	require.True(t, ok)
	require.Len(t, results, 2)

	assert.Empty(t, results["Snapchat"].Error)
	assert.Equal(t, 3670, results["Snapchat"].Followers)
	assert.NotEmpty(t, results["Orphan"].Error)

	metrics, err := cache.Get(context.Background(), "Snapchat")
	require.NoError(t, err)
	assert.Equal(t, 3670, metrics.Followers)
	assert.Zero(t, metrics.Delta)
}
