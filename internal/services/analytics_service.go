package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
	"github.com/nara-ocean/marine-analytics/internal/analytics/anomaly"
	"github.com/nara-ocean/marine-analytics/internal/analytics/climate"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/analytics/seasonal"
	"github.com/nara-ocean/marine-analytics/internal/analytics/trend"
	"github.com/nara-ocean/marine-analytics/internal/archive"
	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/metrics"
	"github.com/nara-ocean/marine-analytics/internal/queue"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// DefaultSeasonalPeriod is used when a seasonal request leaves period unset
const DefaultSeasonalPeriod = 12

// MaxListLimit caps a single predictions listing
const MaxListLimit = 100

// AnalyticsService runs the analytics engines for the HTTP layer
type AnalyticsService struct {
	logger    *logging.Logger
	cfg       config.AnalyticsConfig
	archive   archive.Store
	publisher queue.Publisher
	metrics   *metrics.Metrics
}

// NewAnalyticsService creates a new AnalyticsService. store, publisher and m
// may be nil; the matching side effect is then skipped.
func NewAnalyticsService(
	logger *logging.Logger,
	cfg config.AnalyticsConfig,
	store archive.Store,
	publisher queue.Publisher,
	m *metrics.Metrics,
) *AnalyticsService {
	return &AnalyticsService{
		logger:    logger,
		cfg:       cfg,
		archive:   store,
		publisher: publisher,
		metrics:   m,
	}
}

// Outcome wraps an engine result with its archive id and computation time.
// PredictionID is empty when archiving is off or failed.
type Outcome[T any] struct {
	Result       T
	PredictionID string
	Duration     time.Duration
}

// ForecastRequest represents a forecast request
type ForecastRequest struct {
	SeriesID     string
	History      []analytics.TimeSeriesPoint
	PeriodsAhead int
	Method       string
	Confidence   float64
}

// TrendRequest represents a trend analysis request
type TrendRequest struct {
	SeriesID string
	Values   []float64
	Alpha    float64
}

// AnomalyRequest represents an anomaly detection request
type AnomalyRequest struct {
	SeriesID  string
	Values    []float64
	Threshold float64
	Method    string
}

// SeasonalRequest represents a seasonal analysis request
type SeasonalRequest struct {
	SeriesID string
	Values   []float64
	Period   int
}

// AccuracyRequest scores earlier forecasts against observations
type AccuracyRequest struct {
	SeriesID string
	Pairs    []forecast.ActualVsForecast
}

// ClimateRequest represents a climate impact request
type ClimateRequest struct {
	SeriesID  string
	Samples   []climate.Sample
	Timeframe int
}

// ListRequest filters archived predictions
type ListRequest struct {
	Type     string
	SeriesID string
	Limit    int
}

// Forecast extrapolates a series
func (s *AnalyticsService) Forecast(ctx context.Context, req ForecastRequest) (*Outcome[*forecast.Result], error) {
	if err := s.checkLength("history", len(req.History)); err != nil {
		return nil, err
	}

	opts := s.cfg.ForecastOptions()
	if req.PeriodsAhead != 0 {
		opts.PeriodsAhead = req.PeriodsAhead
	}
	if req.Method != "" {
		opts.Method = req.Method
	}
	if req.Confidence != 0 {
		opts.Confidence = req.Confidence
	}

	return run(ctx, s, computation[*forecast.Result]{
		kind:     archive.KindForecast,
		seriesID: req.SeriesID,
		compute: func() (*forecast.Result, error) {
			return forecast.Forecast(req.SeriesID, req.History, opts)
		},
		summary: func(r *forecast.Result) string {
			if r.InsufficientData {
				return "insufficient data"
			}
			return fmt.Sprintf("%s forecast of %d periods, trend %s", r.Method, len(r.Forecast), r.TrendDirection)
		},
	})
}

// Trend analyses direction, growth and volatility
func (s *AnalyticsService) Trend(ctx context.Context, req TrendRequest) (*Outcome[*trend.Result], error) {
	if err := s.checkLength("values", len(req.Values)); err != nil {
		return nil, err
	}

	opts := s.cfg.TrendOptions()
	if req.Alpha != 0 {
		opts.Alpha = req.Alpha
	}

	return run(ctx, s, computation[*trend.Result]{
		kind:     archive.KindTrend,
		seriesID: req.SeriesID,
		compute: func() (*trend.Result, error) {
			return trend.Analyze(req.Values, opts)
		},
		summary: func(r *trend.Result) string { return r.Summary },
	})
}

// Anomalies flags outliers in a series
func (s *AnalyticsService) Anomalies(ctx context.Context, req AnomalyRequest) (*Outcome[*anomaly.Result], error) {
	if err := s.checkLength("values", len(req.Values)); err != nil {
		return nil, err
	}

	opts := s.cfg.AnomalyOptions()
	if req.Threshold != 0 {
		opts.Threshold = req.Threshold
	}
	if req.Method != "" {
		opts.Method = req.Method
	}

	out, err := run(ctx, s, computation[*anomaly.Result]{
		kind:     archive.KindAnomalies,
		seriesID: req.SeriesID,
		compute: func() (*anomaly.Result, error) {
			return anomaly.Detect(req.Values, opts)
		},
		summary: func(r *anomaly.Result) string {
			return fmt.Sprintf("%d anomalies (%.2f%%) by %s", len(r.Anomalies), r.AnomalyRate, r.Method)
		},
	})
	if err != nil {
		return nil, err
	}
	for _, a := range out.Result.Anomalies {
		s.metrics.AddAnomaly(string(a.Severity))
	}
	return out, nil
}

// Seasonal looks for a recurring pattern of the given period
func (s *AnalyticsService) Seasonal(ctx context.Context, req SeasonalRequest) (*Outcome[*seasonal.Result], error) {
	if err := s.checkLength("values", len(req.Values)); err != nil {
		return nil, err
	}

	period := req.Period
	if period == 0 {
		period = DefaultSeasonalPeriod
	}
	opts := s.cfg.SeasonalOptions()

	return run(ctx, s, computation[*seasonal.Result]{
		kind:     archive.KindSeasonal,
		seriesID: req.SeriesID,
		compute: func() (*seasonal.Result, error) {
			return seasonal.Analyze(req.Values, period, opts)
		},
		summary: func(r *seasonal.Result) string {
			switch {
			case r.InsufficientData:
				return "insufficient data"
			case r.HasSeasonality:
				return fmt.Sprintf("%s seasonality, peak %s, trough %s", r.Strength, r.PeakLabel, r.TroughLabel)
			default:
				return "no seasonality"
			}
		},
	})
}

// Accuracy scores published forecasts once actuals are known
func (s *AnalyticsService) Accuracy(ctx context.Context, req AccuracyRequest) (*Outcome[*forecast.AccuracyReport], error) {
	if err := s.checkLength("pairs", len(req.Pairs)); err != nil {
		return nil, err
	}

	return run(ctx, s, computation[*forecast.AccuracyReport]{
		kind:     archive.KindAccuracy,
		seriesID: req.SeriesID,
		compute: func() (*forecast.AccuracyReport, error) {
			return forecast.EvaluateAccuracy(req.Pairs)
		},
		summary: func(r *forecast.AccuracyReport) string {
			if r.MAPE == nil {
				return fmt.Sprintf("no scorable pairs out of %d", r.Samples)
			}
			return fmt.Sprintf("MAPE %.2f%%, rated %s", *r.MAPE, r.Rating)
		},
	})
}

// ClimateImpact projects temperature and rainfall trends
func (s *AnalyticsService) ClimateImpact(ctx context.Context, req ClimateRequest) (*Outcome[*climate.Result], error) {
	if err := s.checkLength("samples", len(req.Samples)); err != nil {
		return nil, err
	}

	opts := s.cfg.ClimateOptions()
	if req.Timeframe != 0 {
		opts.Timeframe = req.Timeframe
	}

	return run(ctx, s, computation[*climate.Result]{
		kind:     archive.KindClimateImpact,
		seriesID: req.SeriesID,
		compute: func() (*climate.Result, error) {
			return climate.Predict(req.Samples, opts)
		},
		summary: func(r *climate.Result) string { return r.String() },
	})
}

// GetPrediction returns one archived record
func (s *AnalyticsService) GetPrediction(ctx context.Context, id string) (*archive.Record, error) {
	if s.archive == nil {
		return nil, NewServiceError(CodeArchiveUnavailable, "prediction archive is disabled")
	}

	rec, err := s.archive.Get(ctx, id)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, NewServiceErrorWithDetails(CodeNotFound, "prediction not found", map[string]interface{}{
			"id": id,
		})
	}
	if err != nil {
		s.logger.WithContext(ctx).Error("Failed to read prediction", "id", id, "error", err)
		return nil, NewServiceError(CodeArchiveUnavailable, err.Error())
	}
	return rec, nil
}

// ListPredictions returns archived records, newest first
func (s *AnalyticsService) ListPredictions(ctx context.Context, req ListRequest) ([]*archive.Record, error) {
	if s.archive == nil {
		return nil, NewServiceError(CodeArchiveUnavailable, "prediction archive is disabled")
	}

	kind, err := archive.ParseKind(req.Type)
	if err != nil {
		return nil, NewServiceErrorWithDetails(CodeInvalidInput, err.Error(), map[string]interface{}{
			"field":       "type",
			"valid_types": archive.Kinds(),
		})
	}
	if req.Limit < 0 {
		return nil, NewServiceErrorWithDetails(CodeInvalidInput, "limit must be >= 0", map[string]interface{}{
			"field": "limit",
		})
	}
	limit := req.Limit
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	records, err := s.archive.List(ctx, archive.Query{Kind: kind, SeriesID: req.SeriesID, Limit: limit})
	if err != nil {
		s.logger.WithContext(ctx).Error("Failed to list predictions", "type", req.Type, "series_id", req.SeriesID, "error", err)
		return nil, NewServiceError(CodeArchiveUnavailable, err.Error())
	}
	return records, nil
}

func (s *AnalyticsService) checkLength(field string, n int) error {
	if s.cfg.MaxSeriesLength > 0 && n > s.cfg.MaxSeriesLength {
		return NewServiceErrorWithDetails(CodeInvalidInput,
			fmt.Sprintf("%s has %d elements, at most %d allowed", field, n, s.cfg.MaxSeriesLength),
			map[string]interface{}{"field": field, "max": s.cfg.MaxSeriesLength})
	}
	return nil
}

type computation[T any] struct {
	kind     archive.Kind
	seriesID string
	compute  func() (T, error)
	summary  func(T) string
}

// run executes c and then archives and announces its result. Archive and
// event failures are logged and counted but never fail the request.
func run[T any](ctx context.Context, s *AnalyticsService, c computation[T]) (*Outcome[T], error) {
	ctx = logging.WithAnalysis(logging.WithSeriesID(ctx, c.seriesID), string(c.kind))
	log := s.logger.WithContext(ctx)

	start := time.Now()
	result, err := safeCompute(c.compute)
	elapsed := time.Since(start)
	s.metrics.ObserveComputation(string(c.kind), elapsed, err)

	if err != nil {
		log.Warn("Computation rejected", "error", err)
		return nil, s.toServiceError(log, c.kind, err)
	}

	summary := c.summary(result)
	out := &Outcome[T]{Result: result, Duration: elapsed}
	out.PredictionID = s.archiveResult(ctx, c.kind, c.seriesID, result, summary)
	s.publishEvent(ctx, c.kind, out.PredictionID, c.seriesID, summary)

	log.Info("Computation completed",
		"prediction_id", out.PredictionID,
		"summary", summary,
		"duration_ms", elapsed.Milliseconds(),
	)
	return out, nil
}

type panicError struct {
	value interface{}
}

func (e *panicError) Error() string {
	return fmt.Sprintf("computation panicked: %v", e.value)
}

func safeCompute[T any](fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return fn()
}

func (s *AnalyticsService) toServiceError(log *logging.Logger, kind archive.Kind, err error) *ServiceError {
	var invalid *analytics.InvalidInputError
	if errors.As(err, &invalid) {
		if invalid.Field == "method" {
			return NewServiceErrorWithDetails(CodeInvalidMethod, err.Error(), map[string]interface{}{
				"available_methods": availableMethods(kind),
			})
		}
		details := map[string]interface{}{
			"field":  invalid.Field,
			"reason": invalid.Reason,
		}
		if invalid.Index >= 0 {
			details["index"] = invalid.Index
		}
		return NewServiceErrorWithDetails(CodeInvalidInput, err.Error(), details)
	}

	var p *panicError
	if errors.As(err, &p) {
		log.Error("Computation panicked", "panic", fmt.Sprint(p.value))
		return NewServiceError(CodeComputationFailed, fmt.Sprintf("%s computation failed", kind))
	}

	log.Error("Computation failed", "error", err)
	return NewServiceError(CodeComputationFailed, err.Error())
}

func availableMethods(kind archive.Kind) []string {
	switch kind {
	case archive.KindForecast:
		return forecast.ListForecasters()
	case archive.KindAnomalies:
		return anomaly.ListDetectors()
	default:
		return nil
	}
}

func (s *AnalyticsService) archiveResult(ctx context.Context, kind archive.Kind, seriesID string, result interface{}, summary string) string {
	if s.archive == nil {
		return ""
	}

	rec, err := archive.NewRecord(kind, seriesID, result, summary)
	if err != nil {
		s.metrics.IncArchiveFailure()
		s.logger.WithContext(ctx).Warn("Failed to encode prediction", "error", err)
		return ""
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.ArchiveTimeout)
	defer cancel()
	if err := s.archive.Save(saveCtx, rec); err != nil {
		s.metrics.IncArchiveFailure()
		s.logger.WithContext(ctx).Warn("Failed to archive prediction", "error", err)
		return ""
	}
	return rec.ID
}

func (s *AnalyticsService) publishEvent(ctx context.Context, kind archive.Kind, predictionID, seriesID, summary string) {
	if s.publisher == nil {
		return
	}

	id := predictionID
	if id == "" {
		id = uuid.New().String()
	}
	ev := queue.Event{
		ID:        id,
		Kind:      string(kind),
		SeriesID:  seriesID,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.EventPublishTimeout)
	defer cancel()
	if err := queue.PublishEvent(pubCtx, s.publisher, ev); err != nil {
		s.metrics.IncEventFailure()
		s.logger.WithContext(ctx).Warn("Failed to publish event", "subject", queue.Subject(ev.Kind), "error", err)
	}
}
