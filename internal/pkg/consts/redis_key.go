package consts

const (
	PlatformFollowersKey   = "platform:followers:"
	PlatformDeltaKey       = "platform:delta:"
	PlatformLastUpdatedKey = "platform:last_updated:"

	AnalyticsSummaryKey     = "analytics:summary"
	AnalyticsGrowthTrendKey = "analytics:growth_trends"
	AnalyticsDailyMetricKey = "analytics:daily_metrics"

	RefreshDebounceKey = "task:refresh:debounce:"
	StartupMarkerKey   = "task:startup:"
)
