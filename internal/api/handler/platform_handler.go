package handler

import (
	"Beacon/internal/api/dto"
	"Beacon/internal/pkg/response"
	"Beacon/internal/service"
	"Beacon/internal/task"

	"github.com/gin-gonic/gin"
)

type PlatformHandler struct {
	platformSvc service.PlatformService
	scheduler   *task.Scheduler
}

func NewPlatformHandler(platformSvc service.PlatformService, scheduler *task.Scheduler) *PlatformHandler {
	return &PlatformHandler{
		platformSvc: platformSvc,
		scheduler:   scheduler,
	}
}

func (s *PlatformHandler) ListPlatforms(c *gin.Context) {
	platforms, err := s.platformSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, platforms)
}

func (s *PlatformHandler) GetPlatform(c *gin.Context) {
	platformID := c.Param("platform_id")

	platform, err := s.platformSvc.Get(c.Request.Context(), platformID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, platform)
}

func (s *PlatformHandler) CreatePlatform(c *gin.Context) {
	var baseDTO dto.PlatformBaseDTO
	if err := c.ShouldBindJSON(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}

	platform, err := s.platformSvc.Create(c.Request.Context(), &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}

	s.scheduler.ScheduleRefresh(c.Request.Context(), platform.Name, "create")
	response.Success(c, platform)
}

func (s *PlatformHandler) UpdatePlatform(c *gin.Context) {
	platformID := c.Param("platform_id")

	var baseDTO dto.PlatformBaseDTO
	if err := c.ShouldBindJSON(&baseDTO); err != nil {
		response.Error(c, err)
		return
	}

	platform, err := s.platformSvc.Update(c.Request.Context(), platformID, &baseDTO)
	if err != nil {
		response.Error(c, err)
		return
	}

	s.scheduler.ScheduleRefresh(c.Request.Context(), platform.Name, "update")
	response.Success(c, platform)
}

func (s *PlatformHandler) DeletePlatform(c *gin.Context) {
	platformID := c.Param("platform_id")

	platform, err := s.platformSvc.Get(c.Request.Context(), platformID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.platformSvc.Delete(c.Request.Context(), platformID); err != nil {
		response.Error(c, err)
		return
	}

	s.scheduler.ScheduleRefresh(c.Request.Context(), platform.Name, "delete")
	response.Success(c, nil)
}
