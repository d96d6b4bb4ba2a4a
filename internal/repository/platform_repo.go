package repository

import (
	"Beacon/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlatformRepo interface {
	GetAll(ctx context.Context) ([]*model.Platform, error)
	GetAllActive(ctx context.Context) ([]*model.Platform, error)
	GetByID(ctx context.Context, id string) (*model.Platform, error)
	GetByName(ctx context.Context, name string) (*model.Platform, error)
	Create(ctx context.Context, platform *model.Platform) error
	Update(ctx context.Context, platform *model.Platform) error
	Delete(ctx context.Context, id string) error
}

type platformRepoImpl struct {
	db *gorm.DB
}

func NewPlatformRepo(db *gorm.DB) PlatformRepo {
	return &platformRepoImpl{db: db}
}

func (s *platformRepoImpl) GetAll(ctx context.Context) ([]*model.Platform, error) {
	platforms := make([]*model.Platform, 0)
	result := s.db.WithContext(ctx).
		Preload("Fetcher").
		Order("name ASC").
		Find(&platforms)
	if result.Error != nil {
		return nil, result.Error
	}
	return platforms, nil
}

func (s *platformRepoImpl) GetAllActive(ctx context.Context) ([]*model.Platform, error) {
	platforms := make([]*model.Platform, 0)
	result := s.db.WithContext(ctx).
		Preload("Fetcher").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&platforms)
	if result.Error != nil {
		return nil, result.Error
	}
	return platforms, nil
}

func (s *platformRepoImpl) GetByID(ctx context.Context, id string) (*model.Platform, error) {
	var platform model.Platform
	err := s.db.WithContext(ctx).
		Preload("Fetcher").
		Where("id = ?", id).
		First(&platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &platform, nil
}

func (s *platformRepoImpl) GetByName(ctx context.Context, name string) (*model.Platform, error) {
	var platform model.Platform
	err := s.db.WithContext(ctx).
		Preload("Fetcher").
		Where("name = ?", name).
		First(&platform).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &platform, nil
}

func (s *platformRepoImpl) Create(ctx context.Context, platform *model.Platform) error {
	// 关联的抓取器绑定随平台一并落库
	return s.db.WithContext(ctx).Create(platform).Error
}

func (s *platformRepoImpl) Update(ctx context.Context, platform *model.Platform) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Platform{}).
			Where("id = ?", platform.ID).
			Updates(map[string]interface{}{
				"name":       platform.Name,
				"name_local": platform.NameLocal,
				"page_url":   platform.PageURL,
				"color":      platform.Color,
				"is_active":  platform.IsActive,
			}).Error; err != nil {
			return err
		}

		if platform.Fetcher == nil {
			return nil
		}
		platform.Fetcher.PlatformID = platform.ID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"source_type", "updated_at"}),
		}).Create(platform.Fetcher).Error
	})
}

// Delete 平台删除级联清理其历史快照与抓取器绑定
func (s *platformRepoImpl) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("platform_id = ?", id).Delete(&model.DailySnapshot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("platform_id = ?", id).Delete(&model.FetcherAssignment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Platform{}).Error
	})
}
