package handler

import (
	"Beacon/internal/pkg/response"
	"Beacon/internal/service"
	"Beacon/internal/task"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
	scheduler    *task.Scheduler
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService, scheduler *task.Scheduler) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		scheduler:    scheduler,
	}
}

// GetSummary 只读缓存，未命中返回零值摘要
func (s *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := s.analyticsSvc.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

func (s *AnalyticsHandler) GetGrowthTrends(c *gin.Context) {
	trends, err := s.analyticsSvc.GetTrends(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, trends)
}

func (s *AnalyticsHandler) GetDailyMetrics(c *gin.Context) {
	points, err := s.analyticsSvc.GetDaily(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, points)
}

// ForceRefresh 受理后异步跑完整刷新批次，立即返回 202
func (s *AnalyticsHandler) ForceRefresh(c *gin.Context) {
	s.scheduler.RunAsync()
	response.Accepted(c, nil)
}

func (s *AnalyticsHandler) InvalidateCache(c *gin.Context) {
	if err := s.analyticsSvc.Invalidate(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
