package forecast

import (
	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// Thresholds used by the auto forecaster
const (
	autoTrendR2      = 0.25
	autoMinSmoothing = 20
)

// AutoForecaster picks a forecaster from the shape of the data
type AutoForecaster struct{}

// NewAutoForecaster creates a new Auto forecaster
func NewAutoForecaster() *AutoForecaster {
	return &AutoForecaster{}
}

func init() {
	RegisterForecaster(NewAutoForecaster())
}

// Name returns the algorithm name
func (f *AutoForecaster) Name() string {
	return "auto"
}

// Fit delegates to the forecaster returned by Select
func (f *AutoForecaster) Fit(values []float64, opts Options) (*Model, error) {
	return Select(values).Fit(values, opts)
}

// Select returns linear for trending series, exponential smoothing for long
// trendless ones and sma otherwise.
func Select(values []float64) Forecaster {
	switch {
	case hasTrend(values):
		return NewLinearRegressionForecaster()
	case len(values) >= autoMinSmoothing:
		return NewExponentialSmoothingForecaster()
	default:
		return NewSMAForecaster()
	}
}

// hasTrend reports whether a line explains enough of the variance (|r| > 0.5)
func hasTrend(values []float64) bool {
	if len(values) < 5 {
		return false
	}
	return analytics.Fit(values).RSquared > autoTrendR2
}
