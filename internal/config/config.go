package config

import (
	"fmt"
	"time"

	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/analytics/seasonal"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Events    EventsConfig    `mapstructure:"events"`
	Blobstore BlobstoreConfig `mapstructure:"blobstore"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort        int           `mapstructure:"http_port"` // HTTP server port
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"` // Max request body in bytes
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// AnalyticsConfig holds every tunable constant of the analytics engine
type AnalyticsConfig struct {
	MaxSeriesLength int            `mapstructure:"max_series_length"` // Reject longer inputs
	Forecast        ForecastConfig `mapstructure:"forecast"`
	Trend           TrendConfig    `mapstructure:"trend"`
	Anomaly         AnomalyConfig  `mapstructure:"anomaly"`
	Seasonal        SeasonalConfig `mapstructure:"seasonal"`
	Climate         ClimateConfig  `mapstructure:"climate"`
}

// ForecastConfig mirrors forecast.Options
type ForecastConfig struct {
	PeriodsAhead    int             `mapstructure:"periods_ahead"`
	Method          string          `mapstructure:"method"` // linear, holt, exponential, sma, auto
	Confidence      float64         `mapstructure:"confidence"`
	BacktestPeriods int             `mapstructure:"backtest_periods"`
	StableThreshold float64         `mapstructure:"stable_threshold"` // Fraction of |mean| per period
	Alpha           float64         `mapstructure:"alpha"`
	Beta            float64         `mapstructure:"beta"`
	Window          int             `mapstructure:"window"` // sma only
	Rules           []forecast.Rule `mapstructure:"rules"` // Empty means built-in rules
}

// TrendConfig mirrors trend.Options
type TrendConfig struct {
	Window          int     `mapstructure:"window"`
	LongWindow      int     `mapstructure:"long_window"`
	Alpha           float64 `mapstructure:"alpha"`
	StableThreshold float64 `mapstructure:"stable_threshold"`
}

// AnomalyConfig mirrors anomaly.Options
type AnomalyConfig struct {
	Threshold     float64 `mapstructure:"threshold"`
	Method        string  `mapstructure:"method"` // zscore, iqr, moving_avg, auto
	WarningZ      float64 `mapstructure:"warning_z"`
	CriticalZ     float64 `mapstructure:"critical_z"`
	IQRMultiplier float64 `mapstructure:"iqr_multiplier"`
}

// SeasonalConfig mirrors seasonal.Options
type SeasonalConfig struct {
	FThreshold         float64                    `mapstructure:"f_threshold"`
	AmplitudeThreshold float64                    `mapstructure:"amplitude_threshold"`
	Insights           *seasonal.InsightTemplates `mapstructure:"insights"` // nil means English defaults
}

// ClimateConfig mirrors climate.Options
type ClimateConfig struct {
	Timeframe int `mapstructure:"timeframe"`
}

// RateLimitConfig configures the global token bucket
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// RedisConfig is shared by the redis archive, event and blob backends
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ArchiveConfig configures where prediction records are kept
type ArchiveConfig struct {
	Type         string        `mapstructure:"type"`       // memory (default), redis, none
	KeyPrefix    string        `mapstructure:"key_prefix"` // Redis key prefix
	TTL          time.Duration `mapstructure:"ttl"`        // 0 keeps records forever
	DefaultLimit int           `mapstructure:"default_limit"`
	MaxRecords   int           `mapstructure:"max_records"` // Memory backend cap
	Compression  string        `mapstructure:"compression"` // snappy (default), none
}

// EventsConfig represents the completion-event publisher
type EventsConfig struct {
	Type     string `mapstructure:"type"`     // memory (default), nats, redis, kafka, none
	URL      string `mapstructure:"url"`      // e.g. nats://localhost:4222
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Memory-specific options
	MemoryCapacity int `mapstructure:"memory_capacity"` // Recent events kept in process (default: 1000)

	// NATS-specific options
	NATSStream string        `mapstructure:"nats_stream"`  // JetStream stream (default: MARINE_ANALYTICS)
	NATSMaxAge time.Duration `mapstructure:"nats_max_age"` // Event retention (default: 168h)

	// Redis-specific options
	RedisStream string `mapstructure:"redis_stream"`  // Stream key prefix (default: "marine")
	RedisMaxLen int64  `mapstructure:"redis_max_len"` // Approximate per-stream cap, 0 keeps everything

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
}

// BlobstoreConfig configures the image fallback chain
type BlobstoreConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Backends   []string         `mapstructure:"backends"` // Tried in order: redis, minio, filesystem
	MaxSize    int64            `mapstructure:"max_size"` // Bytes
	Redis      BlobRedisConfig  `mapstructure:"redis"`
	Minio      MinioConfig      `mapstructure:"minio"`
	Filesystem FilesystemConfig `mapstructure:"filesystem"`
}

// BlobRedisConfig configures the redis blob backend
type BlobRedisConfig struct {
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// MinioConfig configures the S3-compatible blob backend
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// FilesystemConfig configures the local blob backend
type FilesystemConfig struct {
	Dir string `mapstructure:"dir"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate_limit config: %w", err)
	}

	if err := c.Archive.Validate(); err != nil {
		return fmt.Errorf("archive config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Blobstore.Validate(); err != nil {
		return fmt.Errorf("blobstore config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimit < 0 {
		return fmt.Errorf("body_limit cannot be negative")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

// Validate validates analytics configuration
func (c *AnalyticsConfig) Validate() error {
	if c.MaxSeriesLength < 0 {
		return fmt.Errorf("max_series_length cannot be negative")
	}

	f := c.Forecast
	if f.PeriodsAhead < 0 {
		return fmt.Errorf("forecast.periods_ahead cannot be negative")
	}
	if f.Method != "" {
		if _, err := forecast.GetForecaster(f.Method); err != nil {
			return fmt.Errorf("forecast.method: %w", err)
		}
	}
	if f.Confidence != 0 && (f.Confidence < 0.5 || f.Confidence >= 1) {
		return fmt.Errorf("forecast.confidence must be in [0.5, 1)")
	}
	if f.Window < 0 {
		return fmt.Errorf("forecast.window cannot be negative")
	}
	for i, r := range f.Rules {
		if r.Message == "" {
			return fmt.Errorf("forecast.rules[%d].message is required", i)
		}
	}

	if c.Trend.Alpha < 0 || c.Trend.Alpha > 1 {
		return fmt.Errorf("trend.alpha must be in (0, 1]")
	}
	if c.Trend.Window < 0 || c.Trend.LongWindow < 0 {
		return fmt.Errorf("trend windows cannot be negative")
	}

	if c.Anomaly.Threshold < 0 {
		return fmt.Errorf("anomaly.threshold cannot be negative")
	}
	if c.Anomaly.WarningZ > 0 && c.Anomaly.CriticalZ > 0 && c.Anomaly.WarningZ > c.Anomaly.CriticalZ {
		return fmt.Errorf("anomaly.warning_z cannot exceed anomaly.critical_z")
	}

	if c.Climate.Timeframe < 0 {
		return fmt.Errorf("climate.timeframe cannot be negative")
	}

	return nil
}

// Validate validates rate limit configuration
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.requests_per_second must be positive")
	}
	if c.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1")
	}
	return nil
}

// Validate validates archive configuration
func (c *ArchiveConfig) Validate() error {
	switch c.Type {
	case "", "memory", "redis", "none":
	default:
		return fmt.Errorf("archive.type must be one of: memory, redis, none")
	}
	if c.TTL < 0 {
		return fmt.Errorf("archive.ttl cannot be negative")
	}
	switch c.Compression {
	case "", "snappy", "none":
	default:
		return fmt.Errorf("archive.compression must be one of: snappy, none")
	}
	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	switch c.Type {
	case "", "memory", "nats", "redis", "kafka", "none":
	default:
		return fmt.Errorf("events.type must be one of: memory, nats, redis, kafka, none")
	}
	if c.Type == "kafka" && len(c.KafkaBrokers) == 0 && c.URL == "" {
		return fmt.Errorf("events.kafka_brokers is required for kafka")
	}
	if c.MemoryCapacity < 0 || c.RedisMaxLen < 0 || c.NATSMaxAge < 0 {
		return fmt.Errorf("events capacity, max_len and max_age cannot be negative")
	}
	return nil
}

// Validate validates blob store configuration
func (c *BlobstoreConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Backends) == 0 {
		return fmt.Errorf("blobstore.backends is required when enabled")
	}
	for _, b := range c.Backends {
		switch b {
		case "redis", "filesystem":
		case "minio":
			if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
				return fmt.Errorf("blobstore.minio.endpoint and bucket are required")
			}
		default:
			return fmt.Errorf("unknown blobstore backend: %s", b)
		}
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("blobstore.max_size must be positive")
	}
	return nil
}
