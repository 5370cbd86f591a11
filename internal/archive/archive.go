// Package archive keeps a history of computed predictions so clients can
// retrieve earlier forecasts per series.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// ErrNotFound is returned by Get for unknown ids
var ErrNotFound = errors.New("prediction not found")

// Kind names the analysis that produced a record
type Kind string

const (
	KindForecast      Kind = "forecast"
	KindTrend         Kind = "trend"
	KindAnomalies     Kind = "anomalies"
	KindSeasonal      Kind = "seasonal"
	KindAccuracy      Kind = "accuracy"
	KindClimateImpact Kind = "climate-impact"
)

// Kinds lists every known record kind
func Kinds() []Kind {
	return []Kind{KindForecast, KindTrend, KindAnomalies, KindSeasonal, KindAccuracy, KindClimateImpact}
}

// ParseKind validates a kind string. Empty is allowed and means any kind.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return "", nil
	}
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown prediction type %q", s)
}

// Record is one archived computation
type Record struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"type"`
	SeriesID  string          `json:"seriesId,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Summary   string          `json:"summary,omitempty"`
	Result    json.RawMessage `json:"result"`
}

// NewRecord builds a record with a fresh id and timestamp
func NewRecord(kind Kind, seriesID string, result interface{}, summary string) (*Record, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &Record{
		ID:        uuid.New().String(),
		Kind:      kind,
		SeriesID:  seriesID,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
		Result:    raw,
	}, nil
}

// Query filters List. Limit <= 0 uses the store default.
type Query struct {
	Kind     Kind
	SeriesID string
	Limit    int
}

// Store persists prediction records. List returns newest first.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, q Query) ([]*Record, error)
	Close() error
}

// DefaultLimit is used when neither the query nor the config sets one
const DefaultLimit = 10

// New creates the configured store. Redis reuses the shared connection settings.
func New(cfg config.ArchiveConfig, redisCfg config.RedisConfig) (Store, error) {
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}

	switch utils.ArchiveType(strings.ToLower(cfg.Type)) {
	case utils.ArchiveTypeMemory, "":
		return NewMemoryStore(cfg.MaxRecords, limit), nil
	case utils.ArchiveTypeRedis:
		return NewRedisStore(RedisOptions{
			Addr:         redisCfg.Addr,
			Password:     redisCfg.Password,
			DB:           redisCfg.DB,
			KeyPrefix:    cfg.KeyPrefix,
			TTL:          cfg.TTL,
			DefaultLimit: limit,
			Compression:  cfg.Compression,
		})
	case utils.ArchiveTypeNone:
		return noneStore{}, nil
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", cfg.Type)
	}
}

// noneStore discards records
type noneStore struct{}

func (noneStore) Save(context.Context, *Record) error { return nil }
func (noneStore) Get(context.Context, string) (*Record, error) {
	return nil, ErrNotFound
}
func (noneStore) List(context.Context, Query) ([]*Record, error) { return []*Record{}, nil }
func (noneStore) Close() error                                   { return nil }
