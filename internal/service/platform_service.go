package service

import (
	"Beacon/internal/api/dto"
	"Beacon/internal/model"
	"Beacon/internal/repository"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// PlatformService 平台管理，对外视图始终合并实时缓存指标
type PlatformService interface {
	List(ctx context.Context) ([]*dto.PlatformDTO, error)
	Get(ctx context.Context, id string) (*dto.PlatformDTO, error)
	Create(ctx context.Context, base *dto.PlatformBaseDTO) (*dto.PlatformDTO, error)
	Update(ctx context.Context, id string, base *dto.PlatformBaseDTO) (*dto.PlatformDTO, error)
	Delete(ctx context.Context, id string) error
}

type platformServiceImpl struct {
	platformRepo repository.PlatformRepo
	metricsCache PlatformMetricsCache
}

func NewPlatformService(platformRepo repository.PlatformRepo, metricsCache PlatformMetricsCache) PlatformService {
	return &platformServiceImpl{
		platformRepo: platformRepo,
		metricsCache: metricsCache,
	}
}

func (s *platformServiceImpl) List(ctx context.Context) ([]*dto.PlatformDTO, error) {
	platforms, err := s.platformRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.PlatformDTO, 0, len(platforms))
	for _, platform := range platforms {
		view, viewErr := s.toView(ctx, platform)
		if viewErr != nil {
			return nil, viewErr
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *platformServiceImpl) Get(ctx context.Context, id string) (*dto.PlatformDTO, error) {
	platform, err := s.platformRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotFound
	}
	return s.toView(ctx, platform)
}

func (s *platformServiceImpl) Create(ctx context.Context, base *dto.PlatformBaseDTO) (*dto.PlatformDTO, error) {
	existing, err := s.platformRepo.GetByName(ctx, base.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPlatformNameExist
	}

	platform := &model.Platform{
		ID:        uuid.NewString(),
		Name:      base.Name,
		NameLocal: base.NameLocal,
		PageURL:   base.PageURL,
		Color:     base.Color,
		IsActive:  true,
		Fetcher: &model.FetcherAssignment{
			SourceType: model.SourceType(base.SourceType),
		},
	}
	if base.IsActive != nil {
		platform.IsActive = *base.IsActive
	}

	if err = s.platformRepo.Create(ctx, platform); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "平台创建", "platform", platform.Name, "source_type", base.SourceType)
	return s.toView(ctx, platform)
}

// Update 改名后旧名称下的指标缓存立即作废，避免残留脏键
func (s *platformServiceImpl) Update(ctx context.Context, id string, base *dto.PlatformBaseDTO) (*dto.PlatformDTO, error) {
	platform, err := s.platformRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrPlatformNotFound
	}

	if base.Name != platform.Name {
		conflict, nameErr := s.platformRepo.GetByName(ctx, base.Name)
		if nameErr != nil {
			return nil, nameErr
		}
		if conflict != nil && conflict.ID != id {
			return nil, ErrPlatformNameExist
		}
		if clearErr := s.metricsCache.Clear(ctx, platform.Name); clearErr != nil {
			log.WarnContext(ctx, "旧名称缓存清理失败", "platform", platform.Name, "err", clearErr)
		}
	}

	platform.Name = base.Name
	platform.NameLocal = base.NameLocal
	platform.PageURL = base.PageURL
	platform.Color = base.Color
	if base.IsActive != nil {
		platform.IsActive = *base.IsActive
	}
	platform.Fetcher = &model.FetcherAssignment{
		PlatformID: platform.ID,
		SourceType: model.SourceType(base.SourceType),
	}

	if err = s.platformRepo.Update(ctx, platform); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "平台更新", "platform", platform.Name)
	return s.toView(ctx, platform)
}

func (s *platformServiceImpl) Delete(ctx context.Context, id string) error {
	platform, err := s.platformRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if platform == nil {
		return ErrPlatformNotFound
	}

	if err = s.platformRepo.Delete(ctx, id); err != nil {
		return err
	}
	if clearErr := s.metricsCache.Clear(ctx, platform.Name); clearErr != nil {
		log.WarnContext(ctx, "平台缓存清理失败", "platform", platform.Name, "err", clearErr)
	}
	log.InfoContext(ctx, "平台删除", "platform", platform.Name)
	return nil
}

func (s *platformServiceImpl) toView(ctx context.Context, platform *model.Platform) (*dto.PlatformDTO, error) {
	cached, err := s.metricsCache.Get(ctx, platform.Name)
	if err != nil {
		return nil, err
	}

	view := &dto.PlatformDTO{
		ID:          platform.ID,
		Name:        platform.Name,
		NameLocal:   platform.NameLocal,
		PageURL:     platform.PageURL,
		Color:       platform.Color,
		IsActive:    platform.IsActive,
		Followers:   cached.Followers,
		Delta:       cached.Delta,
		LastUpdated: cached.LastUpdated,
	}
	if platform.Fetcher != nil {
		view.SourceType = string(platform.Fetcher.SourceType)
	}
	return view, nil
}
