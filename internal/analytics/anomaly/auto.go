package anomaly

import (
	"gonum.org/v1/gonum/stat"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// AutoDetector selects a detector from the shape of the series: trending
// data goes to moving_avg, heavily skewed data to iqr, everything else to
// zscore.
type AutoDetector struct{}

func init() {
	RegisterDetector(&AutoDetector{})
}

// Name returns the algorithm name
func (a *AutoDetector) Name() string {
	return "auto"
}

// Flag delegates to the selected detector
func (a *AutoDetector) Flag(values []float64, stats Statistics, opts Options) ([]Candidate, Range) {
	detector, err := GetDetector(SelectDetector(values))
	if err != nil {
		// Fallback to Z-Score
		detector = &ZScoreDetector{}
	}
	return detector.Flag(values, stats, opts)
}

// DataCharacteristics describes properties of the data
type DataCharacteristics struct {
	// Skewness of the value distribution
	Skewness float64

	// TrendR2 is the R² of a linear fit over the index
	TrendR2 float64
}

const (
	trendR2Cutoff  = 0.6
	skewnessCutoff = 1.0
	minAutoPoints  = 8
)

// AnalyzeCharacteristics computes the figures SelectDetector decides on
func AnalyzeCharacteristics(values []float64) DataCharacteristics {
	if len(values) < 3 {
		return DataCharacteristics{}
	}
	return DataCharacteristics{
		Skewness: stat.Skew(values, nil),
		TrendR2:  analytics.Fit(values).RSquared,
	}
}

// SelectDetector names the detector auto would use for values
func SelectDetector(values []float64) string {
	if len(values) < minAutoPoints {
		return "zscore"
	}
	c := AnalyzeCharacteristics(values)
	switch {
	case c.TrendR2 > trendR2Cutoff:
		return "moving_avg"
	case abs(c.Skewness) > skewnessCutoff:
		return "iqr"
	default:
		return "zscore"
	}
}
