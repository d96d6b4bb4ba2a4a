package service

import (
	"Beacon/internal/model"
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memStore 内存版 KVStore，行为对齐 redis 封装：缺失键返回空串
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

func (s *memStore) keysWithPrefix(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

// fakePlatformRepo 内存版平台仓库，列表始终按名称升序
type fakePlatformRepo struct {
	mu        sync.Mutex
	platforms []*model.Platform
}

func newFakePlatformRepo(platforms ...*model.Platform) *fakePlatformRepo {
	return &fakePlatformRepo{platforms: platforms}
}

func (s *fakePlatformRepo) sorted() []*model.Platform {
	out := make([]*model.Platform, len(s.platforms))
	copy(out, s.platforms)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *fakePlatformRepo) GetAll(_ context.Context) ([]*model.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *fakePlatformRepo) GetAllActive(_ context.Context) ([]*model.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := make([]*model.Platform, 0)
	for _, p := range s.sorted() {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (s *fakePlatformRepo) GetByID(_ context.Context, id string) (*model.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.platforms {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakePlatformRepo) GetByName(_ context.Context, name string) (*model.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.platforms {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

func (s *fakePlatformRepo) Create(_ context.Context, platform *model.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platforms = append(s.platforms, platform)
	return nil
}

func (s *fakePlatformRepo) Update(_ context.Context, platform *model.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.platforms {
		if p.ID == platform.ID {
			s.platforms[i] = platform
			return nil
		}
	}
	return nil
}

func (s *fakePlatformRepo) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.platforms {
		if p.ID == id {
			s.platforms = append(s.platforms[:i], s.platforms[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeSnapshotRepo 内存版快照仓库，键为 platform_id + 日期
type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[string]*model.DailySnapshot
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string]*model.DailySnapshot)}
}

func snapshotKey(platformID string, date time.Time) string {
	return platformID + "|" + date.Format(time.DateOnly)
}

func (s *fakeSnapshotRepo) Upsert(_ context.Context, snapshot *model.DailySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshotKey(snapshot.PlatformID, snapshot.SnapshotDate)] = snapshot
	return nil
}

func (s *fakeSnapshotRepo) GetByPlatformAndDate(_ context.Context, platformID string, date time.Time) (*model.DailySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots[snapshotKey(platformID, date)], nil
}

func (s *fakeSnapshotRepo) CountForDate(_ context.Context, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	day := date.Format(time.DateOnly)
	for _, snap := range s.snapshots {
		if snap.SnapshotDate.Format(time.DateOnly) == day {
			count++
		}
	}
	return count, nil
}

func (s *fakeSnapshotRepo) TotalForDate(_ context.Context, date time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	day := date.Format(time.DateOnly)
	for _, snap := range s.snapshots {
		if snap.SnapshotDate.Format(time.DateOnly) == day {
			total += int64(snap.Followers)
		}
	}
	return total, nil
}

func (s *fakeSnapshotRepo) GetBetween(_ context.Context, start, end time.Time) ([]*model.DailySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.DailySnapshot, 0)
	for _, snap := range s.snapshots {
		if !snap.SnapshotDate.Before(start) && !snap.SnapshotDate.After(end) {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SnapshotDate.Before(out[j].SnapshotDate) })
	return out, nil
}
