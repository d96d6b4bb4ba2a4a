package wire

import (
	"Beacon/internal/api"
	"Beacon/internal/api/config"
	"Beacon/internal/api/handler"
	"Beacon/internal/fetcher"
	"Beacon/internal/pkg/cron"
	"Beacon/internal/pkg/redis"
	"Beacon/internal/repository"
	"Beacon/internal/service"
	"Beacon/internal/task"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router    *gin.Engine
	DB        *gorm.DB
	CronMgr   *cron.Manager
	Scheduler *task.Scheduler
}

func BuildApplication(db *gorm.DB, engine *fetcher.Engine, cfg *config.Config) (*ApplicationContainer, error) {
	platformRepo := repository.NewPlatformRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)

	store := redis.NewStore()
	metricsCache := service.NewPlatformMetricsCache(store)
	snapshotService := service.NewSnapshotService(platformRepo, snapshotRepo, metricsCache)

	cacheTTL := time.Duration(cfg.Analytics.CacheTTLHours) * time.Hour
	if cacheTTL <= 0 {
		cacheTTL = 3 * time.Hour
	}
	analyticsService := service.NewAnalyticsService(
		platformRepo, snapshotRepo, snapshotService, metricsCache, store, cacheTTL)
	platformService := service.NewPlatformService(platformRepo, metricsCache)

	httpClient := fetcher.NewHTTPClient(&fetcher.Options{
		UserAgent:       cfg.Fetcher.UserAgent,
		AcceptLanguage:  cfg.Fetcher.AcceptLanguage,
		NavigateTimeout: time.Duration(cfg.Fetcher.NavigateTimeoutSec) * time.Second,
		ReadyTimeout:    time.Duration(cfg.Fetcher.ReadyTimeoutSec) * time.Second,
	})
	fetchers := fetcher.NewRegistry(engine, httpClient)

	registry := task.NewRefreshRegistry(
		platformRepo, fetchers, metricsCache, snapshotService, analyticsService,
		task.Options{
			FetchConcurrency: cfg.Fetcher.FetchConcurrency,
			FetchTimeout:     time.Duration(cfg.Fetcher.FetchTimeoutSec) * time.Second,
			SoftLimit:        time.Duration(cfg.Schedule.SoftLimitSec) * time.Second,
			HardLimit:        time.Duration(cfg.Schedule.HardLimitSec) * time.Second,
		})
	scheduler := task.NewScheduler(registry, store)

	handlers := &api.HandlersGroup{
		PlatformHandler:  handler.NewPlatformHandler(platformService, scheduler),
		AnalyticsHandler: handler.NewAnalyticsHandler(analyticsService, scheduler),
	}

	router := api.SetupRouter(handlers)
	cronMgr := cron.NewCronManager(scheduler, cfg.Schedule.Spec)

	return &ApplicationContainer{
		Router:    router,
		DB:        db,
		CronMgr:   cronMgr,
		Scheduler: scheduler,
	}, nil
}
