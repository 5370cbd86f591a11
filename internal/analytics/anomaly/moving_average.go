package anomaly

import (
	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// DefaultLocalWindow is the neighbourhood size of the moving_avg detector
const DefaultLocalWindow = 6

// MovingAverageDetector compares each point to the mean and spread of its
// neighbours, excluding the point itself. Good for detecting sudden changes in
// trending data where a global mean would flag the ends of the series.
type MovingAverageDetector struct{}

func init() {
	RegisterDetector(&MovingAverageDetector{})
}

// Name returns the algorithm name
func (ma *MovingAverageDetector) Name() string {
	return "moving_avg"
}

// Flag finds points more than opts.Threshold local deviations from their
// neighbourhood mean. The returned range is the global zscore band, for
// reporting only.
func (ma *MovingAverageDetector) Flag(values []float64, stats Statistics, opts Options) ([]Candidate, Range) {
	window := opts.LocalWindow
	if window <= 0 {
		window = DefaultLocalWindow
	}
	if window > len(values) {
		window = len(values) / 2
	}
	if window < 2 {
		window = 2
	}

	var candidates []Candidate
	neighbours := make([]float64, 0, window+1)
	for i, v := range values {
		start, end := i-window/2, i+window/2
		if start < 0 {
			start = 0
		}
		if end >= len(values) {
			end = len(values) - 1
		}

		neighbours = neighbours[:0]
		for j := start; j <= end; j++ {
			if j != i {
				neighbours = append(neighbours, values[j])
			}
		}
		if len(neighbours) == 0 {
			continue
		}

		localMean, localStdDev := analytics.MeanStdDev(neighbours)
		var deviation float64
		switch {
		case localStdDev > 0:
			deviation = abs(v-localMean) / localStdDev
		case v != localMean:
			// flat neighbourhood: any difference is significant
			deviation = opts.Threshold + 1
		}

		if deviation > opts.Threshold {
			candidates = append(candidates, Candidate{Index: i, Type: typeOf(v, localMean)})
		}
	}

	return candidates, Range{
		Min: stats.Mean - opts.Threshold*stats.StdDev,
		Max: stats.Mean + opts.Threshold*stats.StdDev,
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
