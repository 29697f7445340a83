package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the complete configuration for the dashboard
type AppConfig struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	ServiceName string          `mapstructure:"service_name"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	Dataset     DatasetConfig   `mapstructure:"dataset"`
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
	Slider      SliderConfig    `mapstructure:"slider"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Redis       RedisConfig     `mapstructure:"redis"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatasetConfig struct {
	// Location is a file path or an http(s) URL
	Location     string        `mapstructure:"location"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

type DashboardConfig struct {
	PieMode     string `mapstructure:"pie_mode"`
	ChartWidth  int    `mapstructure:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height"`
}

type SliderConfig struct {
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
	Step float64 `mapstructure:"step"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`

	// WarmWorkers renders every site's default charts at startup; 0 disables
	WarmWorkers int `mapstructure:"warm_workers"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Load loads configuration from an optional file and environment variables
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("service_name", "launch-dashboard")
	v.SetDefault("http.addr", ":8050")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)
	v.SetDefault("dataset.location", "data/spacex_launch_dash.csv")
	v.SetDefault("dataset.fetch_timeout", 30*time.Second)
	v.SetDefault("dashboard.pie_mode", "total")
	v.SetDefault("dashboard.chart_width", 900)
	v.SetDefault("dashboard.chart_height", 450)
	v.SetDefault("slider.min", 0)
	v.SetDefault("slider.max", 10000)
	v.SetDefault("slider.step", 1000)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.warm_workers", 4)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.key_prefix", "launchdash:")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	// Explicit bindings so Unmarshal sees nested keys set only through the environment
	v.BindEnv("environment", "ENVIRONMENT")
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("service_name", "SERVICE_NAME")
	v.BindEnv("http.addr", "HTTP_ADDR")
	v.BindEnv("http.read_timeout", "HTTP_READ_TIMEOUT")
	v.BindEnv("http.write_timeout", "HTTP_WRITE_TIMEOUT")
	v.BindEnv("http.shutdown_timeout", "HTTP_SHUTDOWN_TIMEOUT")
	v.BindEnv("dataset.location", "DATASET_LOCATION")
	v.BindEnv("dataset.fetch_timeout", "DATASET_FETCH_TIMEOUT")
	v.BindEnv("dashboard.pie_mode", "DASHBOARD_PIE_MODE")
	v.BindEnv("dashboard.chart_width", "DASHBOARD_CHART_WIDTH")
	v.BindEnv("dashboard.chart_height", "DASHBOARD_CHART_HEIGHT")
	v.BindEnv("slider.min", "SLIDER_MIN")
	v.BindEnv("slider.max", "SLIDER_MAX")
	v.BindEnv("slider.step", "SLIDER_STEP")
	v.BindEnv("cache.backend", "CACHE_BACKEND")
	v.BindEnv("cache.ttl", "CACHE_TTL")
	v.BindEnv("cache.warm_workers", "CACHE_WARM_WORKERS")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.key_prefix", "REDIS_KEY_PREFIX")

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *AppConfig) Validate() error {
	if c.ServiceName == "" {
		return errors.New("service_name is required")
	}
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Dataset.Location == "" {
		return errors.New("dataset.location is required")
	}
	switch c.Dashboard.PieMode {
	case "success", "total":
	default:
		return errors.New("dashboard.pie_mode must be success or total")
	}
	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return errors.New("dashboard chart size must be positive")
	}
	if c.Slider.Step <= 0 {
		return errors.New("slider.step must be positive")
	}
	if c.Slider.Max <= c.Slider.Min {
		return errors.New("slider.max must be greater than slider.min")
	}
	if c.Cache.WarmWorkers < 0 {
		return errors.New("cache.warm_workers must not be negative")
	}
	switch c.Cache.Backend {
	case "none", "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis cache backend")
		}
	default:
		return errors.New("cache.backend must be none, memory or redis")
	}
	return nil
}
