package forecast

import (
	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// LinearRegressionForecaster extrapolates an ordinary least squares line
type LinearRegressionForecaster struct{}

// NewLinearRegressionForecaster creates a new Linear Regression forecaster
func NewLinearRegressionForecaster() *LinearRegressionForecaster {
	return &LinearRegressionForecaster{}
}

func init() {
	RegisterForecaster(NewLinearRegressionForecaster())
}

// Name returns the algorithm name
func (f *LinearRegressionForecaster) Name() string {
	return "linear"
}

// Fit fits y = intercept + slope*i over the indices of values
func (f *LinearRegressionForecaster) Fit(values []float64, _ Options) (*Model, error) {
	fit := analytics.Fit(values)
	last := float64(len(values) - 1)

	return &Model{
		Predict: func(h int) float64 {
			return fit.At(last + float64(h))
		},
		Slope: fit.Slope,
		Sigma: fit.ResidualStdDev,
	}, nil
}
