package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// PopStdDev returns the population standard deviation (divisor n).
// Every z-score in this module is computed against it.
func PopStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	_, std := stat.PopMeanStdDev(values, nil)
	if math.IsNaN(std) {
		return 0
	}
	return std
}

// MeanStdDev returns the mean and population standard deviation together
func MeanStdDev(values []float64) (mean, stdDev float64) {
	return Mean(values), PopStdDev(values)
}

// Quantile returns the empirical p-quantile of values (0 <= p <= 1)
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// LinearFit is an ordinary least squares fit of value against index
type LinearFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	// ResidualStdDev uses n-2 degrees of freedom and is 0 for n <= 2
	ResidualStdDev float64
	N              int
}

// At evaluates the fitted line at index x
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// Fit regresses values on their indices 0..n-1. Series shorter than two
// points or with zero variance produce a flat line with R² = 0.
func Fit(values []float64) LinearFit {
	n := len(values)
	switch {
	case n == 0:
		return LinearFit{}
	case n == 1 || PopStdDev(values) == 0:
		return LinearFit{Intercept: values[0], N: n}
	}

	xs := Indices(n)
	intercept, slope := stat.LinearRegression(xs, values, nil, false)
	r2 := stat.RSquared(xs, values, nil, intercept, slope)
	if math.IsNaN(r2) {
		r2 = 0
	}
	r2 = math.Max(0, math.Min(1, r2))

	fit := LinearFit{Slope: slope, Intercept: intercept, RSquared: r2, N: n}
	if n > 2 {
		sse := 0.0
		for i, v := range values {
			r := v - fit.At(float64(i))
			sse += r * r
		}
		fit.ResidualStdDev = math.Sqrt(sse / float64(n-2))
	}
	return fit
}

// Indices returns 0..n-1 as float64
func Indices(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}
