package config

// Config 配置主体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logstash  LogstashConfig  `mapstructure:"logstash"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// LogstashConfig 远端日志，address 为空时只写 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// FetcherConfig 抓取器配置
type FetcherConfig struct {
	UserAgent          string `mapstructure:"user_agent"`
	AcceptLanguage     string `mapstructure:"accept_language"`
	NavigateTimeoutSec int    `mapstructure:"navigate_timeout_sec"`
	ReadyTimeoutSec    int    `mapstructure:"ready_timeout_sec"`
	FetchTimeoutSec    int    `mapstructure:"fetch_timeout_sec"`
	FetchConcurrency   int    `mapstructure:"fetch_concurrency"`
}

// ScheduleConfig 定时刷新配置，spec 为 robfig/cron 表达式
type ScheduleConfig struct {
	Spec         string `mapstructure:"spec"`
	SoftLimitSec int    `mapstructure:"soft_limit_sec"`
	HardLimitSec int    `mapstructure:"hard_limit_sec"`
}

// AnalyticsConfig 分析缓存配置
type AnalyticsConfig struct {
	CacheTTLHours int `mapstructure:"cache_ttl_hours"`
}
