package task

import (
	"context"
	log "log/slog"
	"time"

	"github.com/pkg/errors"
)

const defaultTaskTimeout = 10 * time.Minute

// Result 单个任务的执行结果
type Result struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Task 具名后台任务；Timeout 为 0 时用默认硬超时
type Task struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) (any, error)
}

// Registry 显式构造的有序任务表，执行顺序即注册顺序
type Registry struct {
	tasks []*Task
}

func NewRegistry(tasks ...*Task) *Registry {
	return &Registry{tasks: tasks}
}

// RunAll 依序执行全部任务，单个任务失败、超时或 panic
// 都只影响自身结果，不中断后续任务
func (r *Registry) RunAll(ctx context.Context) map[string]*Result {
	started := time.Now()
	results := make(map[string]*Result, len(r.tasks))
	succeeded := 0

	for _, t := range r.tasks {
		taskStarted := time.Now()
		result := r.runOne(ctx, t)
		results[t.Name] = result

		if result.Success {
			succeeded++
			log.InfoContext(ctx, "任务执行成功", "task", t.Name, "cost", time.Since(taskStarted).String())
		} else {
			log.ErrorContext(ctx, "任务执行失败", "task", t.Name, "err", result.Error)
		}
	}

	log.InfoContext(ctx, "任务批次完成",
		"total", len(r.tasks),
		"succeeded", succeeded,
		"failed", len(r.tasks)-succeeded,
		"cost", time.Since(started).String())
	return results
}

func (r *Registry) runOne(ctx context.Context, t *Task) *Result {
	timeout := t.Timeout
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: errors.Errorf("任务 panic: %v", p)}
			}
		}()
		value, err := t.Run(runCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return &Result{Error: o.err.Error()}
		}
		return &Result{Success: true, Result: o.value}
	case <-runCtx.Done():
		// 超时后任务协程自行随 runCtx 退出，这里不再等待
		return &Result{Error: errors.Wrapf(runCtx.Err(), "任务 %s 超时", t.Name).Error()}
	}
}
