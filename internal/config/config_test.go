package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/analytics/seasonal"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown forecast method",
			mutate:  func(c *Config) { c.Analytics.Forecast.Method = "oracle" },
			wantErr: true,
		},
		{
			name:    "holt forecast method",
			mutate:  func(c *Config) { c.Analytics.Forecast.Method = "holt" },
			wantErr: false,
		},
		{
			name:    "auto forecast method",
			mutate:  func(c *Config) { c.Analytics.Forecast.Method = "auto" },
			wantErr: false,
		},
		{
			name:    "negative sma window",
			mutate:  func(c *Config) { c.Analytics.Forecast.Window = -1 },
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			mutate:  func(c *Config) { c.Analytics.Forecast.Confidence = 1.2 },
			wantErr: true,
		},
		{
			name:    "warning above critical",
			mutate:  func(c *Config) { c.Analytics.Anomaly.WarningZ = 4 },
			wantErr: true,
		},
		{
			name:    "trend alpha out of range",
			mutate:  func(c *Config) { c.Analytics.Trend.Alpha = 2 },
			wantErr: true,
		},
		{
			name: "rate limit without rate",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.RequestsPerSecond = 0
			},
			wantErr: true,
		},
		{
			name:    "unknown archive type",
			mutate:  func(c *Config) { c.Archive.Type = "mongo" },
			wantErr: true,
		},
		{
			name:    "unknown events type",
			mutate:  func(c *Config) { c.Events.Type = "carrier-pigeon" },
			wantErr: true,
		},
		{
			name: "minio backend without bucket",
			mutate: func(c *Config) {
				c.Blobstore.Enabled = true
				c.Blobstore.Backends = []string{"minio"}
			},
			wantErr: true,
		},
		{
			name: "rule without message",
			mutate: func(c *Config) {
				c.Analytics.Forecast.Rules = []forecast.Rule{{}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_PartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 6000\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Server.HTTPPort)
	assert.Equal(t, "linear", cfg.Analytics.Forecast.Method)
	assert.Equal(t, 2.0, cfg.Analytics.Anomaly.Threshold)
	assert.Equal(t, "memory", cfg.Archive.Type)
}

func TestLoad_RulesAndTemplates(t *testing.T) {
	yaml := `
analytics:
  forecast:
    rules:
      - direction: falling
        min_mape: 10
        message: "Check survey coverage"
  seasonal:
    insights:
      peak_period: "Pic en %s"
      low_period: "Creux en %s"
      recommendation: "Planifier autour de %s"
      strength: "Saisonnalite %s (%s%%)"
      no_seasonality: "Pas de saisonnalite"
      insufficient_data: "Donnees insuffisantes: %d requis, %d fournis"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Analytics.Forecast.Rules, 1)
	rule := cfg.Analytics.Forecast.Rules[0]
	assert.Equal(t, analytics.TrendFalling, rule.Direction)
	assert.Equal(t, 10.0, rule.MinMAPE)

	opts := cfg.Analytics.ForecastOptions()
	assert.Len(t, opts.Rules, 1)

	require.NotNil(t, cfg.Analytics.Seasonal.Insights)
	assert.Equal(t, "Pic en %s", cfg.Analytics.SeasonalOptions().Templates.PeakPeriod)
}

func TestLoad_PartialTemplates(t *testing.T) {
	yaml := `
analytics:
  seasonal:
    insights:
      peak_period: "Pic en %s"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	templates := cfg.Analytics.SeasonalOptions().Templates
	require.NotNil(t, templates)
	defaults := seasonal.DefaultTemplates()
	assert.Equal(t, "Pic en %s", templates.PeakPeriod)
	assert.Equal(t, defaults.LowPeriod, templates.LowPeriod)
	assert.Equal(t, defaults.Strength, templates.Strength)
	assert.Equal(t, defaults.InsufficientData, templates.InsufficientData)

	values := []float64{10, 10, 10, 10, 10, 10, 100, 10, 10, 10, 10, 10}
	result, err := seasonal.Analyze(values, 12, cfg.Analytics.SeasonalOptions())
	require.NoError(t, err)
	for _, insight := range result.Insights {
		assert.NotContains(t, insight, "%!")
	}
	assert.Contains(t, result.Insights, "Pic en Jul")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MARINE_SERVER_HTTP_PORT", "7001")
	t.Setenv("MARINE_ANALYTICS_ANOMALY_THRESHOLD", "2.5")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.HTTPPort)
	assert.Equal(t, 2.5, cfg.Analytics.Anomaly.Threshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	cfg := LoadOrDefault(path)
	assert.Equal(t, DefaultConfig().Server.HTTPPort, cfg.Server.HTTPPort)
}

func TestOptionsConversion(t *testing.T) {
	cfg := DefaultConfig()

	f := cfg.Analytics.ForecastOptions()
	assert.Equal(t, 6, f.PeriodsAhead)
	assert.Nil(t, f.Rules)

	a := cfg.Analytics.AnomalyOptions()
	assert.Equal(t, "zscore", a.Method)

	tr := cfg.Analytics.TrendOptions()
	assert.Equal(t, 3, tr.Window)

	s := cfg.Analytics.SeasonalOptions()
	assert.Nil(t, s.Templates)

	c := cfg.Analytics.ClimateOptions()
	assert.Equal(t, 12, c.Timeframe)

	assert.Equal(t, "0.0.0.0:5580", cfg.GetServerAddress())
}
