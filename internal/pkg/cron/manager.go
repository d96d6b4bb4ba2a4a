package cron

import (
	"Beacon/internal/pkg/logger"
	"Beacon/internal/task"
	"context"
	log "log/slog"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine    *cron.Cron
	scheduler *task.Scheduler
	spec      string
}

func NewCronManager(scheduler *task.Scheduler, spec string) *Manager {
	if spec == "" {
		spec = "@hourly"
	}
	return &Manager{
		engine:    cron.New(cron.WithSeconds()),
		scheduler: scheduler,
		spec:      spec,
	}
}

// RegisterJobs 注册定时任务，每轮批次带独立 trace_id
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddFunc(s.spec, func() {
		ctx := context.WithValue(context.Background(), logger.TraceIDKey, uuid.NewString())
		s.scheduler.RunAll(ctx)
	}); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "spec", s.spec)
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
