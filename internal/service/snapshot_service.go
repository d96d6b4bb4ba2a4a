package service

import (
	"Beacon/internal/model"
	"Beacon/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// SnapshotResult 单个平台的快照落库结果
type SnapshotResult struct {
	Created   bool   `json:"created"`
	Followers int    `json:"followers"`
	Error     string `json:"error,omitempty"`
}

// SnapshotService 每日粉丝数快照，历史趋势的事实来源
type SnapshotService interface {
	Record(ctx context.Context, platform *model.Platform, date time.Time, followers *int) (created bool, err error)
	RecordAllActive(ctx context.Context, date time.Time) (map[string]*SnapshotResult, error)
	TotalForDate(ctx context.Context, date time.Time) (int64, error)
	GrowthBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type snapshotServiceImpl struct {
	platformRepo repository.PlatformRepo
	snapshotRepo repository.SnapshotRepo
	metricsCache PlatformMetricsCache
}

func NewSnapshotService(
	platformRepo repository.PlatformRepo,
	snapshotRepo repository.SnapshotRepo,
	metricsCache PlatformMetricsCache,
) SnapshotService {
	return &snapshotServiceImpl{
		platformRepo: platformRepo,
		snapshotRepo: snapshotRepo,
		metricsCache: metricsCache,
	}
}

// Record 同一天重复记录只覆盖不新增；followers 缺省时取实时缓存值
func (s *snapshotServiceImpl) Record(ctx context.Context, platform *model.Platform, date time.Time, followers *int) (bool, error) {
	if !platform.IsActive {
		log.WarnContext(ctx, "拒绝为停用平台记录快照", "platform", platform.Name)
		return false, ErrPlatformInactive
	}

	day := dateOnly(date)

	if followers == nil {
		cached, err := s.metricsCache.Get(ctx, platform.Name)
		if err != nil {
			return false, err
		}
		followers = &cached.Followers
	}
	if *followers < 0 {
		log.ErrorContext(ctx, "快照粉丝数非法", "platform", platform.Name, "followers", *followers)
		return false, ErrFollowersInvalid
	}

	existing, err := s.snapshotRepo.GetByPlatformAndDate(ctx, platform.ID, day)
	if err != nil {
		return false, err
	}

	err = s.snapshotRepo.Upsert(ctx, &model.DailySnapshot{
		PlatformID:   platform.ID,
		SnapshotDate: day,
		Followers:    *followers,
	})
	if err != nil {
		return false, err
	}

	created := existing == nil
	log.InfoContext(ctx, "记录每日快照",
		"platform", platform.Name,
		"date", day.Format(time.DateOnly),
		"followers", *followers,
		"created", created)
	return created, nil
}

// RecordAllActive 逐平台隔离失败，单个平台出错不影响其余平台
func (s *snapshotServiceImpl) RecordAllActive(ctx context.Context, date time.Time) (map[string]*SnapshotResult, error) {
	platforms, err := s.platformRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*SnapshotResult, len(platforms))
	for _, platform := range platforms {
		created, recordErr := s.Record(ctx, platform, date, nil)
		if recordErr != nil {
			results[platform.Name] = &SnapshotResult{Error: recordErr.Error()}
			continue
		}

		cached, _ := s.metricsCache.Get(ctx, platform.Name)
		followers := 0
		if cached != nil {
			followers = cached.Followers
		}
		results[platform.Name] = &SnapshotResult{Created: created, Followers: followers}
	}

	log.InfoContext(ctx, "每日快照批量完成", "platform_count", len(platforms))
	return results, nil
}

func (s *snapshotServiceImpl) TotalForDate(ctx context.Context, date time.Time) (int64, error) {
	return s.snapshotRepo.TotalForDate(ctx, dateOnly(date))
}

// GrowthBetween 任一端点没有快照数据时按"无变化"返回 0，只记日志不报错
func (s *snapshotServiceImpl) GrowthBetween(ctx context.Context, start, end time.Time) (int64, error) {
	startDay, endDay := dateOnly(start), dateOnly(end)

	startCount, err := s.snapshotRepo.CountForDate(ctx, startDay)
	if err != nil {
		return 0, err
	}
	endCount, err := s.snapshotRepo.CountForDate(ctx, endDay)
	if err != nil {
		return 0, err
	}
	if startCount == 0 || endCount == 0 {
		log.WarnContext(ctx, "增长区间缺少快照数据，按无变化处理",
			"start", startDay.Format(time.DateOnly),
			"end", endDay.Format(time.DateOnly))
		return 0, nil
	}

	startTotal, err := s.snapshotRepo.TotalForDate(ctx, startDay)
	if err != nil {
		return 0, err
	}
	endTotal, err := s.snapshotRepo.TotalForDate(ctx, endDay)
	if err != nil {
		return 0, err
	}
	return endTotal - startTotal, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
