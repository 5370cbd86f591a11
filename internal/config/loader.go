package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MARINE_SERVER_HTTP_PORT
const EnvPrefix = "MARINE"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/marine-analytics")
	}

	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("auth.enabled", d.Auth.Enabled)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)

	v.SetDefault("analytics.max_series_length", d.Analytics.MaxSeriesLength)
	v.SetDefault("analytics.forecast.periods_ahead", d.Analytics.Forecast.PeriodsAhead)
	v.SetDefault("analytics.forecast.method", d.Analytics.Forecast.Method)
	v.SetDefault("analytics.forecast.confidence", d.Analytics.Forecast.Confidence)
	v.SetDefault("analytics.forecast.backtest_periods", d.Analytics.Forecast.BacktestPeriods)
	v.SetDefault("analytics.forecast.stable_threshold", d.Analytics.Forecast.StableThreshold)
	v.SetDefault("analytics.forecast.alpha", d.Analytics.Forecast.Alpha)
	v.SetDefault("analytics.forecast.beta", d.Analytics.Forecast.Beta)
	v.SetDefault("analytics.forecast.window", d.Analytics.Forecast.Window)
	v.SetDefault("analytics.trend.window", d.Analytics.Trend.Window)
	v.SetDefault("analytics.trend.long_window", d.Analytics.Trend.LongWindow)
	v.SetDefault("analytics.trend.alpha", d.Analytics.Trend.Alpha)
	v.SetDefault("analytics.trend.stable_threshold", d.Analytics.Trend.StableThreshold)
	v.SetDefault("analytics.anomaly.threshold", d.Analytics.Anomaly.Threshold)
	v.SetDefault("analytics.anomaly.method", d.Analytics.Anomaly.Method)
	v.SetDefault("analytics.anomaly.warning_z", d.Analytics.Anomaly.WarningZ)
	v.SetDefault("analytics.anomaly.critical_z", d.Analytics.Anomaly.CriticalZ)
	v.SetDefault("analytics.anomaly.iqr_multiplier", d.Analytics.Anomaly.IQRMultiplier)
	v.SetDefault("analytics.seasonal.f_threshold", d.Analytics.Seasonal.FThreshold)
	v.SetDefault("analytics.seasonal.amplitude_threshold", d.Analytics.Seasonal.AmplitudeThreshold)
	v.SetDefault("analytics.climate.timeframe", d.Analytics.Climate.Timeframe)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.db", d.Redis.DB)

	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.key_prefix", d.Archive.KeyPrefix)
	v.SetDefault("archive.default_limit", d.Archive.DefaultLimit)
	v.SetDefault("archive.max_records", d.Archive.MaxRecords)
	v.SetDefault("archive.compression", d.Archive.Compression)

	v.SetDefault("events.type", d.Events.Type)
	v.SetDefault("events.url", d.Events.URL)
	v.SetDefault("events.redis_stream", d.Events.RedisStream)
	v.SetDefault("events.memory_capacity", d.Events.MemoryCapacity)
	v.SetDefault("events.nats_stream", d.Events.NATSStream)
	v.SetDefault("events.nats_max_age", d.Events.NATSMaxAge)

	v.SetDefault("blobstore.enabled", d.Blobstore.Enabled)
	v.SetDefault("blobstore.backends", d.Blobstore.Backends)
	v.SetDefault("blobstore.max_size", d.Blobstore.MaxSize)
	v.SetDefault("blobstore.redis.key_prefix", d.Blobstore.Redis.KeyPrefix)
	v.SetDefault("blobstore.filesystem.dir", d.Blobstore.Filesystem.Dir)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			HTTPPort:        5580,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			BodyLimit:       8 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
		Analytics: AnalyticsConfig{
			MaxSeriesLength: 100000,
			Forecast: ForecastConfig{
				PeriodsAhead:    6,
				Method:          "linear",
				Confidence:      0.95,
				BacktestPeriods: 3,
				StableThreshold: 0.01,
				Alpha:           0.5,
				Beta:            0.3,
				Window:          7,
			},
			Trend: TrendConfig{
				Window:          3,
				LongWindow:      12,
				Alpha:           0.3,
				StableThreshold: 0.01,
			},
			Anomaly: AnomalyConfig{
				Threshold:     2.0,
				Method:        "zscore",
				WarningZ:      2.5,
				CriticalZ:     3.0,
				IQRMultiplier: 1.5,
			},
			Seasonal: SeasonalConfig{
				FThreshold:         3.0,
				AmplitudeThreshold: 0.15,
			},
			Climate: ClimateConfig{
				Timeframe: 12,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 50,
			Burst:             100,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "marine_analytics",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Archive: ArchiveConfig{
			Type:         "memory",
			KeyPrefix:    "marine:predictions",
			DefaultLimit: 10,
			MaxRecords:   10000,
			Compression:  "snappy",
		},
		Events: EventsConfig{
			Type:           "memory",
			URL:            "nats://localhost:4222",
			MemoryCapacity: 1000,
			NATSStream:     "MARINE_ANALYTICS",
			NATSMaxAge:     7 * 24 * time.Hour,
			RedisStream:    "marine",
		},
		Blobstore: BlobstoreConfig{
			Enabled:  false,
			Backends: []string{"redis", "filesystem"},
			MaxSize:  5 * 1024 * 1024,
			Redis: BlobRedisConfig{
				KeyPrefix: "marine:images",
			},
			Filesystem: FilesystemConfig{
				Dir: "./data/images",
			},
		},
	}
}
