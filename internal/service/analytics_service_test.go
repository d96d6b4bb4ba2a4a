package service

import (
	"Beacon/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyticsFixture struct {
	svc          AnalyticsService
	platformRepo *fakePlatformRepo
	snapshotRepo *fakeSnapshotRepo
	cache        PlatformMetricsCache
	store        *memStore
}

func newAnalyticsFixture(platforms ...*model.Platform) *analyticsFixture {
	platformRepo := newFakePlatformRepo(platforms...)
	snapshotRepo := newFakeSnapshotRepo()
	store := newMemStore()
	cache := NewPlatformMetricsCache(store)
	snapshots := NewSnapshotService(platformRepo, snapshotRepo, cache)
	svc := NewAnalyticsService(platformRepo, snapshotRepo, snapshots, cache, store, 3*time.Hour)
	return &analyticsFixture{
		svc:          svc,
		platformRepo: platformRepo,
		snapshotRepo: snapshotRepo,
		cache:        cache,
		store:        store,
	}
}

func TestNewAnalyticsSummaryRejectsInconsistentGrowth(t *testing.T) {
	_, err := NewAnalyticsSummary(100, nil, 5, 1, 10)
	assert.ErrorIs(t, err, ErrGrowthInconsistent)

	_, err = NewAnalyticsSummary(100, nil, 1, 20, 10)
	assert.ErrorIs(t, err, ErrGrowthInconsistent)
}

func TestNewAnalyticsSummaryAcceptsSignedGrowth(t *testing.T) {
	summary, err := NewAnalyticsSummary(100, nil, -1, -5, -20)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), summary.DailyGrowth)
	assert.Equal(t, int64(-20), summary.MonthlyGrowth)
}

func TestRecomputeSummaryTotalsAndTopPlatform(t *testing.T) {
	f := newAnalyticsFixture(
		activePlatform("p1", "Facebook"),
		activePlatform("p2", "Twitter"),
		&model.Platform{ID: "p3", Name: "Youtube", IsActive: false},
	)
	ctx := context.Background()

	require.NoError(t, f.cache.Update(ctx, "Facebook", 300, nil))
	require.NoError(t, f.cache.Update(ctx, "Twitter", 700, nil))
	// 停用平台的缓存值不应计入
	require.NoError(t, f.cache.Update(ctx, "Youtube", 9999, nil))

	summary, err := f.svc.RecomputeSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1000, summary.TotalFollowers)
	require.NotNil(t, summary.TopPlatform)
	assert.Equal(t, "Twitter", summary.TopPlatform.Name)
	assert.Equal(t, 700, summary.TopPlatform.Followers)
}

func TestRecomputeSummaryTopPlatformTieBreaksByName(t *testing.T) {
	f := newAnalyticsFixture(
		activePlatform("p2", "Twitter"),
		activePlatform("p1", "Facebook"),
	)
	ctx := context.Background()

	require.NoError(t, f.cache.Update(ctx, "Facebook", 500, nil))
	require.NoError(t, f.cache.Update(ctx, "Twitter", 500, nil))

	summary, err := f.svc.RecomputeSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, summary.TopPlatform)
	assert.Equal(t, "Facebook", summary.TopPlatform.Name)
}

func TestRecomputeSummaryZeroTotalHasNoTopPlatform(t *testing.T) {
	f := newAnalyticsFixture(activePlatform("p1", "Facebook"))

	summary, err := f.svc.RecomputeSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalFollowers)
	assert.Nil(t, summary.TopPlatform)
}

func TestRecomputeSummaryInconsistentSnapshotsFail(t *testing.T) {
	f := newAnalyticsFixture(activePlatform("p1", "Facebook"))
	ctx := context.Background()
	today := dateOnly(time.Now())

	// 昨日到今日涨 100，但 7 天窗口只涨 10，日增长反超周增长
	for offset, followers := range map[int]int{-7: 190, -1: 100, 0: 200} {
		require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
			PlatformID:   "p1",
			SnapshotDate: today.AddDate(0, 0, offset),
			Followers:    followers,
		}))
	}
	require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID:   "p1",
		SnapshotDate: today.AddDate(0, 0, -30),
		Followers:    195,
	}))

	_, err := f.svc.RecomputeSummary(ctx)
	assert.ErrorIs(t, err, ErrGrowthInconsistent)
}

func TestRecomputeTrendsTodayFallsBackToLiveCache(t *testing.T) {
	f := newAnalyticsFixture(
		activePlatform("p1", "Facebook"),
		activePlatform("p2", "Twitter"),
	)
	ctx := context.Background()
	today := dateOnly(time.Now())

	require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID:   "p1",
		SnapshotDate: today.AddDate(0, 0, -3),
		Followers:    120,
	}))
	require.NoError(t, f.cache.Update(ctx, "Facebook", 200, nil))

	trends, err := f.svc.RecomputeTrends(ctx)
	require.NoError(t, err)

	// Twitter 没有任何数据点，整个平台被省略
	require.Contains(t, trends, "Facebook")
	assert.NotContains(t, trends, "Twitter")

	points := trends["Facebook"]
	require.Len(t, points, 2)
	assert.Equal(t, 120, points[0].Value)
	assert.Equal(t, today.AddDate(0, 0, -3).Format(time.DateOnly), points[0].Date)
	assert.Equal(t, 200, points[1].Value)
	assert.Equal(t, today.Format(time.DateOnly), points[1].Date)
}

func TestRecomputeTrendsPrefersSnapshotOverCacheForToday(t *testing.T) {
	f := newAnalyticsFixture(activePlatform("p1", "Facebook"))
	ctx := context.Background()
	today := dateOnly(time.Now())

	require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID:   "p1",
		SnapshotDate: today,
		Followers:    150,
	}))
	require.NoError(t, f.cache.Update(ctx, "Facebook", 999, nil))

	trends, err := f.svc.RecomputeTrends(ctx)
	require.NoError(t, err)
	points := trends["Facebook"]
	require.Len(t, points, 1)
	assert.Equal(t, 150, points[0].Value)
}

func TestRecomputeDailyFloorsNegativeAtZero(t *testing.T) {
	f := newAnalyticsFixture(activePlatform("p1", "Facebook"))
	ctx := context.Background()
	today := dateOnly(time.Now())

	require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID: "p1", SnapshotDate: today.AddDate(0, 0, -2), Followers: 40,
	}))
	require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID: "p1", SnapshotDate: today.AddDate(0, 0, -1), Followers: 100,
	}))
	require.NoError(t, f.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID: "p1", SnapshotDate: today, Followers: 50,
	}))

	points, err := f.svc.RecomputeDaily(ctx)
	require.NoError(t, err)
	require.Len(t, points, 30)

	yesterday := points[len(points)-2]
	assert.Equal(t, int64(60), yesterday.NewFollowers)

	last := points[len(points)-1]
	assert.Equal(t, today.Format(time.DateOnly), last.Date)
	assert.Zero(t, last.NewFollowers)
}

func TestRefreshAllRoundTripAndInvalidate(t *testing.T) {
	f := newAnalyticsFixture(activePlatform("p1", "Facebook"))
	ctx := context.Background()

	require.NoError(t, f.cache.Update(ctx, "Facebook", 800, nil))

	outcomes := f.svc.RefreshAll(ctx)
	require.Len(t, outcomes, 3)
	for slot, outcome := range outcomes {
		assert.True(t, outcome.Success, "slot=%s", slot)
	}

	summary, err := f.svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 800, summary.TotalFollowers)
	require.NotNil(t, summary.TopPlatform)
	assert.Equal(t, "Facebook", summary.TopPlatform.Name)

	trends, err := f.svc.GetTrends(ctx)
	require.NoError(t, err)
	assert.Contains(t, trends, "Facebook")

	daily, err := f.svc.GetDaily(ctx)
	require.NoError(t, err)
	assert.Len(t, daily, 30)

	require.NoError(t, f.svc.Invalidate(ctx))

	summary, err = f.svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalFollowers)
	assert.Nil(t, summary.TopPlatform)

	trends, err = f.svc.GetTrends(ctx)
	require.NoError(t, err)
	assert.Empty(t, trends)

	daily, err = f.svc.GetDaily(ctx)
	require.NoError(t, err)
	assert.Empty(t, daily)
}
