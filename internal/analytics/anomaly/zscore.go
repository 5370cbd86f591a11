package anomaly

import (
	"math"
)

// ZScoreDetector detects anomalies using Z-Score (standard score)
// Z-Score measures how many standard deviations a point is from the mean
// Points with |Z| > threshold are considered anomalies
type ZScoreDetector struct{}

func init() {
	RegisterDetector(&ZScoreDetector{})
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// Flag finds anomalies using the Z-Score method against the population
// standard deviation
func (z *ZScoreDetector) Flag(values []float64, stats Statistics, opts Options) ([]Candidate, Range) {
	expected := Range{
		Min: stats.Mean - opts.Threshold*stats.StdDev,
		Max: stats.Mean + opts.Threshold*stats.StdDev,
	}

	var candidates []Candidate
	for i, v := range values {
		zScore := (v - stats.Mean) / stats.StdDev
		if math.Abs(zScore) > opts.Threshold {
			candidates = append(candidates, Candidate{
				Index: i,
				Type:  typeOf(v, stats.Mean),
			})
		}
	}
	return candidates, expected
}
