package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/archive"
	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/metrics"
	"github.com/nara-ocean/marine-analytics/internal/queue"
)

type published struct {
	subject string
	event   queue.Event
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	ev, err := queue.DecodeEvent(data)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{subject: subject, event: ev})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

// brokenStore fails every call
type brokenStore struct{}

func (brokenStore) Save(context.Context, *archive.Record) error { return errors.New("redis down") }
func (brokenStore) Get(context.Context, string) (*archive.Record, error) {
	return nil, errors.New("redis down")
}
func (brokenStore) List(context.Context, archive.Query) ([]*archive.Record, error) {
	return nil, errors.New("redis down")
}
func (brokenStore) Close() error { return nil }

type fixture struct {
	svc       *AnalyticsService
	store     *archive.MemoryStore
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := archive.NewMemoryStore(100, 10)
	pub := &recordingPublisher{}
	m := metrics.New("test")
	cfg := config.DefaultConfig().Analytics
	return fixture{
		svc:       NewAnalyticsService(logging.Nop(), cfg, store, pub, m),
		store:     store,
		publisher: pub,
		metrics:   m,
	}
}

func serviceError(t *testing.T, err error) *ServiceError {
	t.Helper()
	var se *ServiceError
	require.True(t, errors.As(err, &se), "expected *ServiceError, got %T", err)
	return se
}

func oneToTen() []float64 {
	return []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

func TestAnalyticsService_Forecast(t *testing.T) {
	f := newFixture(t)
	history := make([]analytics.TimeSeriesPoint, 0, 10)
	for i, v := range oneToTen() {
		history = append(history, analytics.TimeSeriesPoint{Period: fmt.Sprintf("2024-%02d", i+1), Value: v})
	}

	out, err := f.svc.Forecast(context.Background(), ForecastRequest{
		SeriesID:     "yellowfin_tuna",
		History:      history,
		PeriodsAhead: 3,
	})
	require.NoError(t, err)

	assert.Len(t, out.Result.Forecast, 3)
	assert.Equal(t, analytics.TrendRising, out.Result.TrendDirection)
	assert.InDelta(t, 11.0, out.Result.Forecast[0].Value, 1e-9)
	require.NotEmpty(t, out.PredictionID)

	rec, err := f.svc.GetPrediction(context.Background(), out.PredictionID)
	require.NoError(t, err)
	assert.Equal(t, archive.KindForecast, rec.Kind)
	assert.Equal(t, "yellowfin_tuna", rec.SeriesID)

	var archived forecast.Result
	require.NoError(t, json.Unmarshal(rec.Result, &archived))
	assert.Equal(t, out.Result.Forecast, archived.Forecast)

	events := f.publisher.all()
	require.Len(t, events, 1)
	assert.Equal(t, "analytics.forecast.completed", events[0].subject)
	assert.Equal(t, out.PredictionID, events[0].event.ID)
	assert.Equal(t, "yellowfin_tuna", events[0].event.SeriesID)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Computations.WithLabelValues("forecast", "ok")))
}

func TestAnalyticsService_ForecastUnknownMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Forecast(context.Background(), ForecastRequest{
		History: []analytics.TimeSeriesPoint{{Period: "1", Value: 1}, {Period: "2", Value: 2}},
		Method:  "crystal_ball",
	})
	se := serviceError(t, err)
	assert.Equal(t, CodeInvalidMethod, se.Code)
	assert.Equal(t, forecast.ListForecasters(), se.Details["available_methods"])

	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.publisher.all())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Computations.WithLabelValues("forecast", "error")))
}

func TestAnalyticsService_InvalidValue(t *testing.T) {
	f := newFixture(t)
	values := oneToTen()
	values[4] = math.NaN()

	_, err := f.svc.Trend(context.Background(), TrendRequest{Values: values})
	se := serviceError(t, err)
	assert.Equal(t, CodeInvalidInput, se.Code)
	assert.Equal(t, 4, se.Details["index"])
	assert.Equal(t, "values", se.Details["field"])
}

func TestAnalyticsService_MaxSeriesLength(t *testing.T) {
	f := newFixture(t)
	f.svc.cfg.MaxSeriesLength = 5

	_, err := f.svc.Anomalies(context.Background(), AnomalyRequest{Values: oneToTen()})
	se := serviceError(t, err)
	assert.Equal(t, CodeInvalidInput, se.Code)
	assert.Equal(t, 5, se.Details["max"])
}

func TestAnalyticsService_Trend(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.Trend(context.Background(), TrendRequest{SeriesID: "cod", Values: oneToTen()})
	require.NoError(t, err)
	assert.Equal(t, analytics.TrendRising, out.Result.TrendDirection)
	assert.Len(t, out.Result.MovingAverages.MA3, 8)

	rec, err := f.svc.GetPrediction(context.Background(), out.PredictionID)
	require.NoError(t, err)
	assert.Equal(t, out.Result.Summary, rec.Summary)
}

func TestAnalyticsService_Anomalies(t *testing.T) {
	f := newFixture(t)
	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100}

	out, err := f.svc.Anomalies(context.Background(), AnomalyRequest{Values: values})
	require.NoError(t, err)
	require.Len(t, out.Result.Anomalies, 1)
	assert.Equal(t, 9, out.Result.Anomalies[0].Index)

	severity := string(out.Result.Anomalies[0].Severity)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Anomalies.WithLabelValues(severity)))
}

func TestAnalyticsService_AnomaliesUnknownDetector(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Anomalies(context.Background(), AnomalyRequest{Values: oneToTen(), Method: "tarot"})
	se := serviceError(t, err)
	assert.Equal(t, CodeInvalidMethod, se.Code)
	assert.Contains(t, se.Details["available_methods"], "zscore")
}

func TestAnalyticsService_SeasonalDefaultPeriod(t *testing.T) {
	f := newFixture(t)
	values := []float64{1, 1, 1, 1, 1, 1, 10, 1, 1, 1, 1, 1}

	out, err := f.svc.Seasonal(context.Background(), SeasonalRequest{Values: values})
	require.NoError(t, err)
	assert.Equal(t, DefaultSeasonalPeriod, out.Result.Period)
	assert.Equal(t, 6, out.Result.PeakMonth)
	assert.True(t, out.Result.HasSeasonality)
}

func TestAnalyticsService_SeasonalBadPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Seasonal(context.Background(), SeasonalRequest{Values: oneToTen(), Period: 1})
	assert.Equal(t, CodeInvalidInput, serviceError(t, err).Code)
}

func TestAnalyticsService_Accuracy(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.Accuracy(context.Background(), AccuracyRequest{
		SeriesID: "hake",
		Pairs: []forecast.ActualVsForecast{
			{Forecast: 110, Actual: 100},
			{Forecast: 90, Actual: 100},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out.Result.MAPE)
	assert.InDelta(t, 10.0, *out.Result.MAPE, 1e-9)
	assert.Equal(t, forecast.RatingExcellent, out.Result.Rating)
}

func TestAnalyticsService_ClimateImpact(t *testing.T) {
	f := newFixture(t)

	out, err := f.svc.ClimateImpact(context.Background(), ClimateRequest{SeriesID: "north-sea"})
	require.NoError(t, err)
	assert.True(t, out.Result.InsufficientData)
	assert.Equal(t, f.svc.cfg.Climate.Timeframe, out.Result.Timeframe)
}

func TestAnalyticsService_BrokenSideEffectsDoNotFail(t *testing.T) {
	m := metrics.New("test")
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewAnalyticsService(logging.Nop(), config.DefaultConfig().Analytics, brokenStore{}, pub, m)

	out, err := svc.Trend(context.Background(), TrendRequest{Values: oneToTen()})
	require.NoError(t, err)
	assert.Empty(t, out.PredictionID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ArchiveFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventFailures))
}

func TestAnalyticsService_NoArchive(t *testing.T) {
	svc := NewAnalyticsService(logging.Nop(), config.DefaultConfig().Analytics, nil, nil, nil)

	out, err := svc.Trend(context.Background(), TrendRequest{Values: oneToTen()})
	require.NoError(t, err)
	assert.Empty(t, out.PredictionID)

	_, err = svc.GetPrediction(context.Background(), "x")
	assert.Equal(t, CodeArchiveUnavailable, serviceError(t, err).Code)

	_, err = svc.ListPredictions(context.Background(), ListRequest{})
	assert.Equal(t, CodeArchiveUnavailable, serviceError(t, err).Code)
}

func TestAnalyticsService_PredictionQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Trend(ctx, TrendRequest{SeriesID: "cod", Values: oneToTen()})
	require.NoError(t, err)
	_, err = f.svc.Trend(ctx, TrendRequest{SeriesID: "hake", Values: oneToTen()})
	require.NoError(t, err)
	_, err = f.svc.Anomalies(ctx, AnomalyRequest{SeriesID: "cod", Values: oneToTen()})
	require.NoError(t, err)

	all, err := f.svc.ListPredictions(ctx, ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	trends, err := f.svc.ListPredictions(ctx, ListRequest{Type: "trend"})
	require.NoError(t, err)
	assert.Len(t, trends, 2)

	cod, err := f.svc.ListPredictions(ctx, ListRequest{Type: "trend", SeriesID: "cod", Limit: 5})
	require.NoError(t, err)
	require.Len(t, cod, 1)
	assert.Equal(t, "cod", cod[0].SeriesID)

	_, err = f.svc.ListPredictions(ctx, ListRequest{Type: "horoscope"})
	assert.Equal(t, CodeInvalidInput, serviceError(t, err).Code)

	_, err = f.svc.ListPredictions(ctx, ListRequest{Limit: -1})
	assert.Equal(t, CodeInvalidInput, serviceError(t, err).Code)

	_, err = f.svc.GetPrediction(ctx, "missing")
	assert.Equal(t, CodeNotFound, serviceError(t, err).Code)
}

func TestAnalyticsService_ArchiveErrors(t *testing.T) {
	svc := NewAnalyticsService(logging.Nop(), config.DefaultConfig().Analytics, brokenStore{}, nil, nil)

	_, err := svc.GetPrediction(context.Background(), "x")
	assert.Equal(t, CodeArchiveUnavailable, serviceError(t, err).Code)

	_, err = svc.ListPredictions(context.Background(), ListRequest{})
	assert.Equal(t, CodeArchiveUnavailable, serviceError(t, err).Code)
}

func TestSafeCompute_RecoversPanic(t *testing.T) {
	f := newFixture(t)

	_, err := run(context.Background(), f.svc, computation[int]{
		kind:    archive.KindTrend,
		compute: func() (int, error) { panic("index out of range") },
		summary: func(int) string { return "" },
	})
	se := serviceError(t, err)
	assert.Equal(t, CodeComputationFailed, se.Code)
	assert.Equal(t, 0, f.store.Len())
}
