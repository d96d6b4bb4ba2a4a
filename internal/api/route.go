package api

import (
	"Beacon/internal/api/middleware"
	"Beacon/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		platformGroup := apiGroup.Group("/platforms")
		{
			platformGroup.GET("", group.PlatformHandler.ListPlatforms)
			platformGroup.GET("/:platform_id", group.PlatformHandler.GetPlatform)
			platformGroup.POST("", group.PlatformHandler.CreatePlatform)
			platformGroup.PUT("/:platform_id", group.PlatformHandler.UpdatePlatform)
			platformGroup.DELETE("/:platform_id", group.PlatformHandler.DeletePlatform)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		{
			analyticsGroup.GET("/summary", group.AnalyticsHandler.GetSummary)
			analyticsGroup.GET("/growth-trends", group.AnalyticsHandler.GetGrowthTrends)
			analyticsGroup.GET("/daily-metrics", group.AnalyticsHandler.GetDailyMetrics)
			analyticsGroup.POST("/force-refresh", group.AnalyticsHandler.ForceRefresh)
			analyticsGroup.POST("/invalidate-cache", group.AnalyticsHandler.InvalidateCache)
		}
	}

	return r
}
