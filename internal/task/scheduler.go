package task

import (
	"Beacon/internal/pkg/consts"
	"Beacon/internal/pkg/logger"
	"Beacon/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	debounceBucket = 5 * time.Second
	debounceTTL    = 5 * time.Second
	refreshDelay   = 3 * time.Second

	startupBucket = time.Minute
	startupTTL    = 10 * time.Minute
)

// Scheduler 刷新批次的触发入口：平台变更去抖、手动强刷、
// 进程启动补刷都从这里走
type Scheduler struct {
	registry *Registry
	store    service.KVStore
}

func NewScheduler(registry *Registry, store service.KVStore) *Scheduler {
	return &Scheduler{registry: registry, store: store}
}

func (s *Scheduler) RunAll(ctx context.Context) map[string]*Result {
	return s.registry.RunAll(ctx)
}

// ScheduleRefresh 平台增删改后的延迟刷新。同一平台同一动作
// 在 5 秒桶内的重复触发只生效一次，3 秒后异步跑完整批次
func (s *Scheduler) ScheduleRefresh(ctx context.Context, platformName, action string) {
	bucket := time.Now().Unix() / int64(debounceBucket.Seconds())
	marker := fmt.Sprintf("%s%s:%s:%d", consts.RefreshDebounceKey, platformName, action, bucket)

	acquired, err := s.store.SetNX(ctx, marker, "1", debounceTTL)
	if err != nil {
		log.ErrorContext(ctx, "刷新去抖标记写入失败", "platform", platformName, "err", err)
		return
	}
	if !acquired {
		log.DebugContext(ctx, "刷新请求去抖合并", "platform", platformName, "action", action)
		return
	}

	log.InfoContext(ctx, "已调度延迟刷新", "platform", platformName, "action", action)
	s.runAsync(refreshDelay)
}

// RunAsync 手动强刷，同样延迟执行并立即返回
func (s *Scheduler) RunAsync() {
	s.runAsync(refreshDelay)
}

// TriggerStartup 进程启动补刷一轮数据。分钟桶标记保证
// 短时间内反复重启的进程不会重复触发
func (s *Scheduler) TriggerStartup(ctx context.Context) {
	bucket := time.Now().Unix() / int64(startupBucket.Seconds())
	marker := fmt.Sprintf("%s%d", consts.StartupMarkerKey, bucket)

	acquired, err := s.store.SetNX(ctx, marker, "1", startupTTL)
	if err != nil {
		log.ErrorContext(ctx, "启动标记写入失败", "err", err)
		return
	}
	if !acquired {
		log.InfoContext(ctx, "启动刷新已由其他进程触发，跳过")
		return
	}

	log.InfoContext(ctx, "启动刷新已调度")
	s.runAsync(refreshDelay)
}

// runAsync 异步批次使用独立 ctx 与新 trace_id，不随请求取消
func (s *Scheduler) runAsync(delay time.Duration) {
	go func() {
		time.Sleep(delay)
		runCtx := context.WithValue(context.Background(), logger.TraceIDKey, uuid.NewString())
		s.registry.RunAll(runCtx)
	}()
}
