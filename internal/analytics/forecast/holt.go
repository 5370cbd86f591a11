package forecast

import (
	"fmt"
	"math"
)

// HoltForecaster implements Holt's linear (double exponential smoothing)
// method: a smoothed level plus a smoothed per-period trend.
type HoltForecaster struct{}

// NewHoltForecaster creates a new Holt forecaster
func NewHoltForecaster() *HoltForecaster {
	return &HoltForecaster{}
}

func init() {
	RegisterForecaster(NewHoltForecaster())
}

// Name returns the algorithm name
func (f *HoltForecaster) Name() string {
	return "holt"
}

// Fit runs the level/trend recursion seeded with level=v[0], trend=v[1]-v[0]
func (f *HoltForecaster) Fit(values []float64, opts Options) (*Model, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("holt needs at least 2 values, have %d", len(values))
	}
	opts = opts.withDefaults()
	alpha, beta := opts.Alpha, opts.Beta

	level := values[0]
	trend := values[1] - values[0]
	sumSquaredError := 0.0

	for i := 1; i < len(values); i++ {
		oneStep := level + trend
		residual := values[i] - oneStep
		sumSquaredError += residual * residual

		prevLevel := level
		level = alpha*values[i] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}

	sigma := 0.0
	if len(values) > 2 {
		sigma = math.Sqrt(sumSquaredError / float64(len(values)-2))
	}

	finalLevel, finalTrend := level, trend
	return &Model{
		Predict: func(h int) float64 {
			return finalLevel + float64(h)*finalTrend
		},
		Slope: finalTrend,
		Sigma: sigma,
	}, nil
}
