package task

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// memStore 内存版 KVStore，只实现调度器用到的语义
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value
	return true, nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func newCountingScheduler() (*Scheduler, *atomic.Int32) {
	var runs atomic.Int32
	registry := NewRegistry(&Task{
		Name: "counter",
		Run: func(context.Context) (any, error) {
			runs.Add(1)
			return nil, nil
		},
	})
	return NewScheduler(registry, newMemStore()), &runs
}

func TestScheduleRefreshCollapsesRapidTriggers(t *testing.T) {
	scheduler, runs := newCountingScheduler()
	ctx := context.Background()

	scheduler.ScheduleRefresh(ctx, "Facebook", "update")
	scheduler.ScheduleRefresh(ctx, "Facebook", "update")
	scheduler.ScheduleRefresh(ctx, "Facebook", "update")

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, 6*time.Second, 100*time.Millisecond)

	// 延迟窗口过后也不应再有补跑
	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduleRefreshDifferentActionsRunSeparately(t *testing.T) {
	scheduler, runs := newCountingScheduler()
	ctx := context.Background()

	scheduler.ScheduleRefresh(ctx, "Facebook", "create")
	scheduler.ScheduleRefresh(ctx, "Facebook", "delete")

	assert.Eventually(t, func() bool {
		return runs.Load() == 2
	}, 6*time.Second, 100*time.Millisecond)
}

func TestTriggerStartupFiresOnce(t *testing.T) {
	scheduler, runs := newCountingScheduler()
	ctx := context.Background()

	scheduler.TriggerStartup(ctx)
	scheduler.TriggerStartup(ctx)

	assert.Eventually(t, func() bool {
		return runs.Load() == 1
	}, 6*time.Second, 100*time.Millisecond)

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}
