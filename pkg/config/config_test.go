package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() AppConfig {
	return AppConfig{
		ServiceName: "launch-dashboard",
		HTTP:        HTTPConfig{Addr: ":8050"},
		Dataset:     DatasetConfig{Location: "data/spacex_launch_dash.csv"},
		Dashboard:   DashboardConfig{PieMode: "success", ChartWidth: 900, ChartHeight: 450},
		Slider:      SliderConfig{Min: 0, Max: 10000, Step: 1000},
		Cache:       CacheConfig{Backend: "memory"},
	}
}

func TestConfigValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid slider bounds pass validation", prop.ForAll(
		func(min, width, step float64) bool {
			cfg := validConfig()
			cfg.Slider = SliderConfig{Min: min, Max: min + width, Step: step}
			return cfg.Validate() == nil
		},
		gen.Float64Range(0, 5000),
		gen.Float64Range(1, 10000),
		gen.Float64Range(1, 1000),
	))

	properties.Property("inverted slider bounds fail validation", prop.ForAll(
		func(min, width float64) bool {
			cfg := validConfig()
			cfg.Slider.Min = min
			cfg.Slider.Max = min - width
			return cfg.Validate() != nil
		},
		gen.Float64Range(0, 10000),
		gen.Float64Range(0, 10000),
	))

	properties.Property("unknown pie modes fail validation", prop.ForAll(
		func(mode string) bool {
			if mode == "success" || mode == "total" {
				return true
			}
			cfg := validConfig()
			cfg.Dashboard.PieMode = mode
			return cfg.Validate() != nil
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"service name", func(c *AppConfig) { c.ServiceName = "" }},
		{"http addr", func(c *AppConfig) { c.HTTP.Addr = "" }},
		{"dataset location", func(c *AppConfig) { c.Dataset.Location = "" }},
		{"chart size", func(c *AppConfig) { c.Dashboard.ChartWidth = 0 }},
		{"slider step", func(c *AppConfig) { c.Slider.Step = 0 }},
		{"cache backend", func(c *AppConfig) { c.Cache.Backend = "disk" }},
		{"redis addr", func(c *AppConfig) { c.Cache.Backend = "redis" }},
		{"warm workers", func(c *AppConfig) { c.Cache.WarmWorkers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "launch-dashboard", cfg.ServiceName)
	assert.Equal(t, ":8050", cfg.HTTP.Addr)
	assert.Equal(t, "data/spacex_launch_dash.csv", cfg.Dataset.Location)
	assert.Equal(t, "total", cfg.Dashboard.PieMode)
	assert.Equal(t, SliderConfig{Min: 0, Max: 10000, Step: 1000}, cfg.Slider)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 4, cfg.Cache.WarmWorkers)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVICE_NAME", "dash-test")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("DATASET_LOCATION", "https://example.com/spacex_launch_dash.csv")
	t.Setenv("DASHBOARD_PIE_MODE", "total")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "1m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dash-test", cfg.ServiceName)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "https://example.com/spacex_launch_dash.csv", cfg.Dataset.Location)
	assert.Equal(t, "total", cfg.Dashboard.PieMode)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)

	t.Setenv("DASHBOARD_PIE_MODE", "donut")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service_name: file-dash
dataset:
  location: /srv/launches.csv
slider:
  max: 12000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-dash", cfg.ServiceName)
	assert.Equal(t, "/srv/launches.csv", cfg.Dataset.Location)
	assert.Equal(t, 12000.0, cfg.Slider.Max)
	assert.Equal(t, 1000.0, cfg.Slider.Step)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
