package forecast

import (
	"math"
)

// Common test data and helpers for all forecast tests

func nan() float64 { return math.NaN() }

// generateLinearValues creates values with linear pattern: y = slope * x + intercept
func generateLinearValues(n int, slope, intercept float64) []float64 {
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = slope*float64(i) + intercept
	}
	return values
}

// generateNoisyValues adds a deterministic zig-zag to a linear trend
func generateNoisyValues(n int, slope, noise float64) []float64 {
	values := generateLinearValues(n, slope, 100)
	for i := range values {
		if i%2 == 0 {
			values[i] += noise
		} else {
			values[i] -= noise
		}
	}
	return values
}
