// Package forecast extrapolates a series forward with widening confidence
// intervals, backtests the fit and attaches rule-based recommendations.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// DataPoint is an alias to the shared analytics.TimeSeriesPoint type.
type DataPoint = analytics.TimeSeriesPoint

// ConfidenceInterval bounds a forecast value
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Point is a single forecast period
type Point struct {
	Period             string             `json:"period"`
	Value              float64            `json:"value"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
}

// Accuracy describes the holdout backtest. MAPE is nil when the history was
// too short to hold anything out.
type Accuracy struct {
	MAPE           *float64 `json:"mape"`
	Score          *float64 `json:"score,omitempty"`
	Rating         string   `json:"rating,omitempty"`
	HoldoutPeriods int      `json:"holdoutPeriods"`
	Backtested     bool     `json:"backtested"`
}

// Result is the output of Forecast
type Result struct {
	SeriesID         string                   `json:"seriesId"`
	Method           string                   `json:"method"`
	Historical       []DataPoint              `json:"historical"`
	Forecast         []Point                  `json:"forecast"`
	TrendDirection   analytics.TrendDirection `json:"trendDirection"`
	Slope            float64                  `json:"slope"`
	Accuracy         Accuracy                 `json:"accuracy"`
	Recommendations  []string                 `json:"recommendations"`
	DataQuality      string                   `json:"dataQuality"`
	InsufficientData bool                     `json:"insufficientData"`
}

// Options holds every recognized forecasting option
type Options struct {
	PeriodsAhead    int     // periods to extrapolate; 0 means DefaultPeriodsAhead
	Method          string  // registered forecaster name, "linear" by default
	Confidence      float64 // interval confidence level: 0.90, 0.95 or 0.99
	BacktestPeriods int     // points held out for the MAPE backtest
	StableThreshold float64 // see analytics.ClassifyDirection
	Alpha           float64 // level smoothing for holt and exponential
	Beta            float64 // trend smoothing for holt
	Window          int     // trailing window for sma
	Rules           RuleSet // recommendation rules, DefaultRules() when nil
}

const (
	DefaultPeriodsAhead    = 6
	DefaultMethod          = "linear"
	DefaultConfidence      = 0.95
	DefaultBacktestPeriods = 3
	DefaultAlpha           = 0.5
	DefaultBeta            = 0.3
	DefaultWindow          = 7
)

// DefaultOptions returns the default forecast options
func DefaultOptions() Options {
	return Options{
		PeriodsAhead:    DefaultPeriodsAhead,
		Method:          DefaultMethod,
		Confidence:      DefaultConfidence,
		BacktestPeriods: DefaultBacktestPeriods,
		StableThreshold: analytics.DefaultStableThreshold,
		Alpha:           DefaultAlpha,
		Beta:            DefaultBeta,
		Window:          DefaultWindow,
		Rules:           DefaultRules(),
	}
}

// withDefaults fills zero values. Negative PeriodsAhead is left for validation.
func (o Options) withDefaults() Options {
	if o.PeriodsAhead == 0 {
		o.PeriodsAhead = DefaultPeriodsAhead
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = DefaultConfidence
	}
	if o.BacktestPeriods <= 0 {
		o.BacktestPeriods = DefaultBacktestPeriods
	}
	if o.StableThreshold <= 0 {
		o.StableThreshold = analytics.DefaultStableThreshold
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		o.Alpha = DefaultAlpha
	}
	if o.Beta <= 0 || o.Beta > 1 {
		o.Beta = DefaultBeta
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.Rules == nil {
		o.Rules = DefaultRules()
	}
	return o
}

// Model is a fitted forecaster
type Model struct {
	// Predict returns the value h periods after the last fitted point
	Predict func(h int) float64
	// Slope is the per-period change used for the direction
	Slope float64
	// Sigma is the one-step residual standard deviation
	Sigma float64
}

// Forecaster interface for all forecasting algorithms
type Forecaster interface {
	// Name returns the algorithm name
	Name() string
	// Fit fits the model to at least two values
	Fit(values []float64, opts Options) (*Model, error)
}

var (
	registryMu         sync.RWMutex
	forecasterRegistry = make(map[string]Forecaster)
)

// RegisterForecaster adds a forecaster to the registry
func RegisterForecaster(forecaster Forecaster) {
	registryMu.Lock()
	defer registryMu.Unlock()
	forecasterRegistry[forecaster.Name()] = forecaster
}

// GetForecaster returns a forecaster by name
func GetForecaster(name string) (Forecaster, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if forecaster, ok := forecasterRegistry[name]; ok {
		return forecaster, nil
	}
	return nil, fmt.Errorf("unknown forecaster: %s", name)
}

// ListForecasters returns the sorted names of registered forecasters
func ListForecasters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(forecasterRegistry))
	for name := range forecasterRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forecast fits history and extrapolates opts.PeriodsAhead periods. With the
// auto method, Result.Method names the model Select chose.
// Fewer than two points give an empty, stable result rather than an error;
// only malformed input (non-finite values, negative horizon, unknown method)
// is rejected.
func Forecast(seriesID string, history []DataPoint, opts Options) (*Result, error) {
	if opts.PeriodsAhead < 0 {
		return nil, analytics.NewInvalidInput("periodsAhead", "must be >= 1")
	}
	opts = opts.withDefaults()

	values := analytics.TimeSeriesData(history).Values()
	if err := analytics.ValidateValues("history.value", values); err != nil {
		return nil, err
	}

	forecaster, err := GetForecaster(opts.Method)
	if err != nil {
		return nil, analytics.NewInvalidInput("method", err.Error())
	}

	if len(history) < 2 {
		return insufficientResult(seriesID, opts.Method), nil
	}
	if _, ok := forecaster.(*AutoForecaster); ok {
		forecaster = Select(values)
	}

	model, err := forecaster.Fit(values, opts)
	if err != nil {
		return nil, fmt.Errorf("fit %s model: %w", forecaster.Name(), err)
	}

	z := zForConfidence(opts.Confidence)
	labels := NextPeriods(analytics.TimeSeriesData(history).Periods(), opts.PeriodsAhead)
	points := make([]Point, opts.PeriodsAhead)
	for h := 1; h <= opts.PeriodsAhead; h++ {
		value := model.Predict(h)
		margin := z * model.Sigma * math.Sqrt(float64(h))
		points[h-1] = Point{
			Period: labels[h-1],
			Value:  value,
			ConfidenceInterval: ConfidenceInterval{
				Lower: value - margin,
				Upper: value + margin,
			},
		}
	}

	direction := analytics.ClassifyDirection(model.Slope, analytics.Mean(values), opts.StableThreshold)
	accuracy := backtest(values, forecaster, opts)

	historical := make([]DataPoint, len(history))
	copy(historical, history)

	return &Result{
		SeriesID:        seriesID,
		Method:          forecaster.Name(),
		Historical:      historical,
		Forecast:        points,
		TrendDirection:  direction,
		Slope:           model.Slope,
		Accuracy:        accuracy,
		Recommendations: opts.Rules.Evaluate(direction, accuracy.MAPE),
		DataQuality:     dataQuality(len(history)),
	}, nil
}

func insufficientResult(seriesID, method string) *Result {
	return &Result{
		SeriesID:         seriesID,
		Method:           method,
		Historical:       []DataPoint{},
		Forecast:         []Point{},
		TrendDirection:   analytics.TrendStable,
		Recommendations:  []string{InsufficientDataMessage},
		DataQuality:      dataQuality(0),
		InsufficientData: true,
	}
}

// InsufficientDataMessage is the only recommendation for too-short histories
const InsufficientDataMessage = "Not enough history to forecast. At least 2 observations are required."

func dataQuality(n int) string {
	switch {
	case n >= 24:
		return "high"
	case n >= 12:
		return "medium"
	default:
		return "low"
	}
}

// zForConfidence returns the two-sided normal quantile for the supported levels
func zForConfidence(confidence float64) float64 {
	switch {
	case confidence >= 0.99:
		return 2.576
	case confidence >= 0.95:
		return 1.96
	case confidence >= 0.90:
		return 1.645
	default:
		return 1.96
	}
}

// CalculateMAPE calculates Mean Absolute Percentage Error, skipping zero
// actuals. Returns 0 when nothing could be compared.
func CalculateMAPE(actual, predicted []float64) float64 {
	mape, _ := meanAbsolutePercentageError(actual, predicted)
	return mape
}

func meanAbsolutePercentageError(actual, predicted []float64) (float64, bool) {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0, false
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += analytics.Bounded(math.Abs((actual[i] - predicted[i]) / actual[i]))
			count++
		}
	}

	if count == 0 {
		return 0, false
	}
	return (sum / float64(count)) * 100, true
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(actual)))
}
