package service

import (
	"Beacon/internal/pkg/consts"
	"Beacon/internal/repository"
	"context"
	log "log/slog"
	"time"

	json "github.com/goccy/go-json"
)

// TopPlatform 当前粉丝数最高的平台，总量为 0 时整体置空
type TopPlatform struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	NameLocal string `json:"name_local"`
	Followers int    `json:"followers"`
}

type AnalyticsSummary struct {
	TotalFollowers int          `json:"total_followers"`
	TopPlatform    *TopPlatform `json:"top_platform"`
	DailyGrowth    int64        `json:"daily_growth"`
	WeeklyGrowth   int64        `json:"weekly_growth"`
	MonthlyGrowth  int64        `json:"monthly_growth"`
	GeneratedAt    string       `json:"generated_at"`
}

type TrendPoint struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
	Date  string `json:"date"`
}

type DailyMetricPoint struct {
	Date         string `json:"date"`
	NewFollowers int64  `json:"new_followers"`
}

type RefreshOutcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewAnalyticsSummary 长周期增长的绝对值不应小于短周期，违反即视为数据不一致
func NewAnalyticsSummary(totalFollowers int, top *TopPlatform, daily, weekly, monthly int64) (*AnalyticsSummary, error) {
	if abs64(monthly) < abs64(weekly) || abs64(weekly) < abs64(daily) {
		return nil, ErrGrowthInconsistent
	}
	if totalFollowers == 0 {
		top = nil
	}
	return &AnalyticsSummary{
		TotalFollowers: totalFollowers,
		TopPlatform:    top,
		DailyGrowth:    daily,
		WeeklyGrowth:   weekly,
		MonthlyGrowth:  monthly,
		GeneratedAt:    time.Now().Format(time.RFC3339),
	}, nil
}

// AnalyticsService 仪表盘聚合数据，读路径只查缓存不做计算
type AnalyticsService interface {
	RecomputeSummary(ctx context.Context) (*AnalyticsSummary, error)
	RecomputeTrends(ctx context.Context) (map[string][]TrendPoint, error)
	RecomputeDaily(ctx context.Context) ([]DailyMetricPoint, error)
	RefreshAll(ctx context.Context) map[string]*RefreshOutcome
	GetSummary(ctx context.Context) (*AnalyticsSummary, error)
	GetTrends(ctx context.Context) (map[string][]TrendPoint, error)
	GetDaily(ctx context.Context) ([]DailyMetricPoint, error)
	Invalidate(ctx context.Context) error
}

type analyticsServiceImpl struct {
	platformRepo repository.PlatformRepo
	snapshotRepo repository.SnapshotRepo
	snapshots    SnapshotService
	metricsCache PlatformMetricsCache
	store        KVStore
	cacheTTL     time.Duration
}

func NewAnalyticsService(
	platformRepo repository.PlatformRepo,
	snapshotRepo repository.SnapshotRepo,
	snapshots SnapshotService,
	metricsCache PlatformMetricsCache,
	store KVStore,
	cacheTTL time.Duration,
) AnalyticsService {
	return &analyticsServiceImpl{
		platformRepo: platformRepo,
		snapshotRepo: snapshotRepo,
		snapshots:    snapshots,
		metricsCache: metricsCache,
		store:        store,
		cacheTTL:     cacheTTL,
	}
}

// RecomputeSummary 总量与榜首取实时缓存，增长取历史快照差值；
// 榜首并列时按名称序取靠前者
func (s *analyticsServiceImpl) RecomputeSummary(ctx context.Context) (*AnalyticsSummary, error) {
	platforms, err := s.platformRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	var top *TopPlatform
	for _, platform := range platforms {
		cached, cacheErr := s.metricsCache.Get(ctx, platform.Name)
		if cacheErr != nil {
			return nil, cacheErr
		}
		total += cached.Followers
		// platforms 已按名称升序，严格大于才换榜首
		if top == nil || cached.Followers > top.Followers {
			top = &TopPlatform{
				ID:        platform.ID,
				Name:      platform.Name,
				NameLocal: platform.NameLocal,
				Followers: cached.Followers,
			}
		}
	}

	today := time.Now()
	daily, err := s.snapshots.GrowthBetween(ctx, today.AddDate(0, 0, -1), today)
	if err != nil {
		return nil, err
	}
	weekly, err := s.snapshots.GrowthBetween(ctx, today.AddDate(0, 0, -7), today)
	if err != nil {
		return nil, err
	}
	monthly, err := s.snapshots.GrowthBetween(ctx, today.AddDate(0, 0, -30), today)
	if err != nil {
		return nil, err
	}

	return NewAnalyticsSummary(total, top, daily, weekly, monthly)
}

// RecomputeTrends 每个启用平台近 7 天各取一点；当天没有快照时
// 退而取实时缓存值，其余缺数据的天直接跳过
func (s *analyticsServiceImpl) RecomputeTrends(ctx context.Context) (map[string][]TrendPoint, error) {
	platforms, err := s.platformRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	today := dateOnly(time.Now())
	trends := make(map[string][]TrendPoint, len(platforms))
	for _, platform := range platforms {
		points := make([]TrendPoint, 0, 7)
		for offset := 6; offset >= 0; offset-- {
			day := today.AddDate(0, 0, -offset)
			snapshot, snapErr := s.snapshotRepo.GetByPlatformAndDate(ctx, platform.ID, day)
			if snapErr != nil {
				return nil, snapErr
			}

			value := 0
			if snapshot != nil {
				value = snapshot.Followers
			} else if day.Equal(today) {
				cached, cacheErr := s.metricsCache.Get(ctx, platform.Name)
				if cacheErr != nil {
					return nil, cacheErr
				}
				if cached.LastUpdated == "" {
					continue
				}
				value = cached.Followers
			} else {
				continue
			}

			points = append(points, TrendPoint{
				Day:   day.Format("Mon"),
				Value: value,
				Date:  day.Format(time.DateOnly),
			})
		}
		if len(points) > 0 {
			trends[platform.Name] = points
		}
	}
	return trends, nil
}

// RecomputeDaily 近 30 天逐日新增，总量回落的天按 0 计
func (s *analyticsServiceImpl) RecomputeDaily(ctx context.Context) ([]DailyMetricPoint, error) {
	today := dateOnly(time.Now())
	points := make([]DailyMetricPoint, 0, 30)

	previous, err := s.snapshotRepo.TotalForDate(ctx, today.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	for offset := 29; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		current, totErr := s.snapshotRepo.TotalForDate(ctx, day)
		if totErr != nil {
			return nil, totErr
		}
		newFollowers := current - previous
		if newFollowers < 0 {
			newFollowers = 0
		}
		points = append(points, DailyMetricPoint{
			Date:         day.Format(time.DateOnly),
			NewFollowers: newFollowers,
		})
		previous = current
	}
	return points, nil
}

// RefreshAll 三个缓存槽各自重算各自落盘，单槽失败不拖累其他槽
func (s *analyticsServiceImpl) RefreshAll(ctx context.Context) map[string]*RefreshOutcome {
	outcomes := make(map[string]*RefreshOutcome, 3)

	outcomes["summary"] = s.refreshSlot(ctx, consts.AnalyticsSummaryKey, func() (any, error) {
		return s.RecomputeSummary(ctx)
	})
	outcomes["growth_trends"] = s.refreshSlot(ctx, consts.AnalyticsGrowthTrendKey, func() (any, error) {
		return s.RecomputeTrends(ctx)
	})
	outcomes["daily_metrics"] = s.refreshSlot(ctx, consts.AnalyticsDailyMetricKey, func() (any, error) {
		return s.RecomputeDaily(ctx)
	})

	return outcomes
}

func (s *analyticsServiceImpl) refreshSlot(ctx context.Context, key string, compute func() (any, error)) *RefreshOutcome {
	value, err := compute()
	if err != nil {
		log.ErrorContext(ctx, "分析缓存重算失败", "slot", key, "err", err)
		return &RefreshOutcome{Error: err.Error()}
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.ErrorContext(ctx, "分析缓存序列化失败", "slot", key, "err", err)
		return &RefreshOutcome{Error: err.Error()}
	}
	if err = s.store.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
		log.ErrorContext(ctx, "分析缓存写入失败", "slot", key, "err", err)
		return &RefreshOutcome{Error: err.Error()}
	}

	log.InfoContext(ctx, "分析缓存已刷新", "slot", key)
	return &RefreshOutcome{Success: true}
}

// GetSummary 缓存未命中时返回零值摘要，绝不触发现算
func (s *analyticsServiceImpl) GetSummary(ctx context.Context) (*AnalyticsSummary, error) {
	raw, err := s.store.Get(ctx, consts.AnalyticsSummaryKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return &AnalyticsSummary{}, nil
	}

	var summary AnalyticsSummary
	if err = json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *analyticsServiceImpl) GetTrends(ctx context.Context) (map[string][]TrendPoint, error) {
	raw, err := s.store.Get(ctx, consts.AnalyticsGrowthTrendKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return map[string][]TrendPoint{}, nil
	}

	trends := make(map[string][]TrendPoint)
	if err = json.Unmarshal([]byte(raw), &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

func (s *analyticsServiceImpl) GetDaily(ctx context.Context) ([]DailyMetricPoint, error) {
	raw, err := s.store.Get(ctx, consts.AnalyticsDailyMetricKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return []DailyMetricPoint{}, nil
	}

	points := make([]DailyMetricPoint, 0)
	if err = json.Unmarshal([]byte(raw), &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *analyticsServiceImpl) Invalidate(ctx context.Context) error {
	return s.store.Delete(ctx,
		consts.AnalyticsSummaryKey,
		consts.AnalyticsGrowthTrendKey,
		consts.AnalyticsDailyMetricKey,
	)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
