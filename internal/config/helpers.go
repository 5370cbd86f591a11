package config

import (
	"fmt"

	"github.com/nara-ocean/marine-analytics/internal/analytics/anomaly"
	"github.com/nara-ocean/marine-analytics/internal/analytics/climate"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/analytics/seasonal"
	"github.com/nara-ocean/marine-analytics/internal/analytics/trend"
)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// ForecastOptions converts the forecast section to engine options
func (c *AnalyticsConfig) ForecastOptions() forecast.Options {
	f := c.Forecast
	opts := forecast.Options{
		PeriodsAhead:    f.PeriodsAhead,
		Method:          f.Method,
		Confidence:      f.Confidence,
		BacktestPeriods: f.BacktestPeriods,
		StableThreshold: f.StableThreshold,
		Alpha:           f.Alpha,
		Beta:            f.Beta,
		Window:          f.Window,
	}
	if len(f.Rules) > 0 {
		opts.Rules = forecast.RuleSet(f.Rules)
	}
	return opts
}

// TrendOptions converts the trend section to engine options
func (c *AnalyticsConfig) TrendOptions() trend.Options {
	opts := trend.DefaultOptions()
	opts.Window = c.Trend.Window
	opts.LongWindow = c.Trend.LongWindow
	opts.Alpha = c.Trend.Alpha
	opts.StableThreshold = c.Trend.StableThreshold
	return opts
}

// AnomalyOptions converts the anomaly section to engine options
func (c *AnalyticsConfig) AnomalyOptions() anomaly.Options {
	return anomaly.Options{
		Threshold:     c.Anomaly.Threshold,
		Method:        c.Anomaly.Method,
		WarningZ:      c.Anomaly.WarningZ,
		CriticalZ:     c.Anomaly.CriticalZ,
		IQRMultiplier: c.Anomaly.IQRMultiplier,
	}
}

// SeasonalOptions converts the seasonal section to engine options
func (c *AnalyticsConfig) SeasonalOptions() seasonal.Options {
	opts := seasonal.DefaultOptions()
	opts.FThreshold = c.Seasonal.FThreshold
	opts.AmplitudeThreshold = c.Seasonal.AmplitudeThreshold
	if c.Seasonal.Insights != nil {
		t := c.Seasonal.Insights.WithDefaults()
		opts.Templates = &t
	}
	return opts
}

// ClimateOptions converts the climate section to engine options
func (c *AnalyticsConfig) ClimateOptions() climate.Options {
	opts := climate.DefaultOptions()
	opts.Timeframe = c.Climate.Timeframe
	return opts
}
