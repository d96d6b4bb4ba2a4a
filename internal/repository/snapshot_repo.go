package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SnapshotRepo interface {
	Upsert(ctx context.Context, snapshot *model.DailySnapshot) error
	GetByPlatformAndDate(ctx context.Context, platformID string, date time.Time) (*model.DailySnapshot, error)
	CountForDate(ctx context.Context, date time.Time) (int64, error)
	TotalForDate(ctx context.Context, date time.Time) (int64, error)
	GetBetween(ctx context.Context, start, end time.Time) ([]*model.DailySnapshot, error)
}

type snapshotRepoImpl struct {
	db *gorm.DB
}

func NewSnapshotRepo(db *gorm.DB) SnapshotRepo {
	return &snapshotRepoImpl{db: db}
}

// Upsert 同一 (platform_id, snapshot_date) 当天重复记录只做覆盖
func (s *snapshotRepoImpl) Upsert(ctx context.Context, snapshot *model.DailySnapshot) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "platform_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"followers"}),
	}).Create(snapshot).Error
}

func (s *snapshotRepoImpl) GetByPlatformAndDate(ctx context.Context, platformID string, date time.Time) (*model.DailySnapshot, error) {
	var snapshot model.DailySnapshot
	err := s.db.WithContext(ctx).
		Where("platform_id = ? AND snapshot_date = ?", platformID, date.Format(time.DateOnly)).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

func (s *snapshotRepoImpl) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.DailySnapshot{}).
		Where("snapshot_date = ?", date.Format(time.DateOnly)).
		Count(&count).Error
	return count, err
}

func (s *snapshotRepoImpl) TotalForDate(ctx context.Context, date time.Time) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&model.DailySnapshot{}).
		Where("snapshot_date = ?", date.Format(time.DateOnly)).
		Select("COALESCE(SUM(followers), 0)").
		Scan(&total).Error
	return total, err
}

func (s *snapshotRepoImpl) GetBetween(ctx context.Context, start, end time.Time) ([]*model.DailySnapshot, error) {
	snapshots := make([]*model.DailySnapshot, 0)
	result := s.db.WithContext(ctx).
		Where("snapshot_date >= ? AND snapshot_date <= ?",
			start.Format(time.DateOnly), end.Format(time.DateOnly)).
		Order("snapshot_date ASC").
		Find(&snapshots)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshots, nil
}
