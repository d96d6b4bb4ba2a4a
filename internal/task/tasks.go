package task

import (
	"Beacon/internal/fetcher"
	"Beacon/internal/repository"
	"Beacon/internal/service"
	"context"
	log "log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	TaskUpdatePlatformMetrics = "update_platform_metrics"
	TaskRecordDailySnapshots  = "record_daily_snapshots"
	TaskUpdateAnalyticsCache  = "update_analytics_cache"
)

// Options 任务级别的限流与超时参数，均来自配置
type Options struct {
	FetchConcurrency int           // 平台抓取并发上限
	FetchTimeout     time.Duration // 单平台抓取硬超时
	SoftLimit        time.Duration // 超过只告警
	HardLimit        time.Duration // 超过强制终止
}

func (o Options) withDefaults() Options {
	if o.FetchConcurrency <= 0 {
		o.FetchConcurrency = 3
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 45 * time.Second
	}
	if o.SoftLimit <= 0 {
		o.SoftLimit = 8 * time.Minute
	}
	if o.HardLimit <= 0 {
		o.HardLimit = 10 * time.Minute
	}
	return o
}

// platformFetchResult 单平台刷新结果，进任务结果表
type platformFetchResult struct {
	Followers int    `json:"followers,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewRefreshRegistry 组装标准刷新批次：抓取并刷新实时指标，
// 落每日快照，最后重算分析缓存，顺序即数据依赖顺序
func NewRefreshRegistry(
	platformRepo repository.PlatformRepo,
	fetchers *fetcher.Registry,
	metricsCache service.PlatformMetricsCache,
	snapshots service.SnapshotService,
	analytics service.AnalyticsService,
	opts Options,
) *Registry {
	opts = opts.withDefaults()

	return NewRegistry(
		&Task{
			Name:    TaskUpdatePlatformMetrics,
			Timeout: opts.HardLimit,
			Run:     newMetricsRun(platformRepo, fetchers, metricsCache, opts),
		},
		&Task{
			Name:    TaskRecordDailySnapshots,
			Timeout: opts.HardLimit,
			Run: func(ctx context.Context) (any, error) {
				results, err := snapshots.RecordAllActive(ctx, time.Now())
				if err != nil {
					return nil, err
				}
				return results, nil
			},
		},
		&Task{
			Name:    TaskUpdateAnalyticsCache,
			Timeout: opts.HardLimit,
			Run: func(ctx context.Context) (any, error) {
				return analytics.RefreshAll(ctx), nil
			},
		},
	)
}

// newMetricsRun 有限并发扇出抓取启用平台，单平台失败只记结果；
// 整轮超出软限额时告警但不中断
func newMetricsRun(
	platformRepo repository.PlatformRepo,
	fetchers *fetcher.Registry,
	metricsCache service.PlatformMetricsCache,
	opts Options,
) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		platforms, err := platformRepo.GetAllActive(ctx)
		if err != nil {
			return nil, err
		}

		started := time.Now()
		results := make(map[string]*platformFetchResult, len(platforms))
		var mu sync.Mutex

		g, groupCtx := errgroup.WithContext(ctx)
		g.SetLimit(opts.FetchConcurrency)
		for _, platform := range platforms {
			platform := platform
			g.Go(func() error {
				fetchCtx, cancel := context.WithTimeout(groupCtx, opts.FetchTimeout)
				defer cancel()

				count, fetchErr := fetchers.Dispatch(fetchCtx, platform)
				mu.Lock()
				defer mu.Unlock()
				if fetchErr != nil {
					log.WarnContext(ctx, "平台抓取失败", "platform", platform.Name, "err", fetchErr)
					results[platform.Name] = &platformFetchResult{Error: fetchErr.Error()}
					return nil
				}

				if cacheErr := metricsCache.Update(ctx, platform.Name, count, nil); cacheErr != nil {
					results[platform.Name] = &platformFetchResult{Error: cacheErr.Error()}
					return nil
				}
				results[platform.Name] = &platformFetchResult{Followers: count}
				return nil
			})
		}
		_ = g.Wait()

		if cost := time.Since(started); cost > opts.SoftLimit {
			log.WarnContext(ctx, "平台抓取耗时超过软限额", "cost", cost.String(), "soft_limit", opts.SoftLimit.String())
		}
		return results, nil
	}
}
