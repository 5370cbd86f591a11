package forecast

import (
	"fmt"
	"math"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// ExponentialSmoothingForecaster implements simple exponential smoothing
type ExponentialSmoothingForecaster struct{}

// NewExponentialSmoothingForecaster creates a new Exponential Smoothing forecaster
func NewExponentialSmoothingForecaster() *ExponentialSmoothingForecaster {
	return &ExponentialSmoothingForecaster{}
}

func init() {
	RegisterForecaster(NewExponentialSmoothingForecaster())
}

// Name returns the algorithm name
func (f *ExponentialSmoothingForecaster) Name() string {
	return "exponential"
}

// Fit smooths the level with opts.Alpha and forecasts it flat
func (f *ExponentialSmoothingForecaster) Fit(values []float64, opts Options) (*Model, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("exponential needs at least 2 values, have %d", len(values))
	}
	opts = opts.withDefaults()
	alpha := opts.Alpha

	level := values[0]
	sumSquaredError := 0.0
	for i := 1; i < len(values); i++ {
		residual := values[i] - level
		sumSquaredError += residual * residual
		level = alpha*values[i] + (1-alpha)*level
	}

	finalLevel := level
	return &Model{
		Predict: func(int) float64 { return finalLevel },
		Slope:   analytics.Fit(values).Slope,
		Sigma:   math.Sqrt(sumSquaredError / float64(len(values)-1)),
	}, nil
}
