package forecast

import (
	"fmt"
	"math"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// SMAForecaster projects the mean of the trailing window flat into the future
type SMAForecaster struct{}

// NewSMAForecaster creates a new SMA forecaster
func NewSMAForecaster() *SMAForecaster {
	return &SMAForecaster{}
}

func init() {
	RegisterForecaster(NewSMAForecaster())
}

// Name returns the algorithm name
func (f *SMAForecaster) Name() string {
	return "sma"
}

// Fit averages the last opts.Window values. Sigma comes from one-step errors
// of the trailing mean; Slope is the least squares slope of the whole series.
func (f *SMAForecaster) Fit(values []float64, opts Options) (*Model, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("sma needs at least 2 values, have %d", len(values))
	}
	opts = opts.withDefaults()

	window := opts.Window
	if window > len(values) {
		window = len(values)
	}

	sumSquaredError := 0.0
	for i := 1; i < len(values); i++ {
		start := i - window
		if start < 0 {
			start = 0
		}
		residual := values[i] - analytics.Mean(values[start:i])
		sumSquaredError += residual * residual
	}

	level := analytics.Mean(values[len(values)-window:])
	return &Model{
		Predict: func(int) float64 { return level },
		Slope:   analytics.Fit(values).Slope,
		Sigma:   math.Sqrt(sumSquaredError / float64(len(values)-1)),
	}, nil
}
