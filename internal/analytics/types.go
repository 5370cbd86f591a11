// Package analytics provides the shared types and statistics used by the
// forecasting, trend, anomaly and seasonal packages.
package analytics

// TimeSeriesPoint is a single observation of a series. Period is a free-form
// label ("2024-01", "2024-01-15", "7"); duplicates are allowed.
type TimeSeriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// TimeSeriesData is a chronologically ordered series
type TimeSeriesData []TimeSeriesPoint

// Values extracts just the values from the time series
func (ts TimeSeriesData) Values() []float64 {
	values := make([]float64, len(ts))
	for i, p := range ts {
		values[i] = p.Value
	}
	return values
}

// Periods extracts just the period labels from the time series
func (ts TimeSeriesData) Periods() []string {
	periods := make([]string, len(ts))
	for i, p := range ts {
		periods[i] = p.Period
	}
	return periods
}

// Len returns the number of data points
func (ts TimeSeriesData) Len() int {
	return len(ts)
}

// TrendDirection is the direction of a fitted trend
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// Strength is a weak/moderate/strong band shared by trend and seasonal results
type Strength string

const (
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

// DefaultStableThreshold is the per-period slope, as a fraction of the series
// mean, under which a trend is reported as stable.
const DefaultStableThreshold = 0.01

// ClassifyDirection turns a slope into a direction. A slope within
// threshold*|mean| of zero is stable; for a zero mean only an exactly flat
// slope is stable.
func ClassifyDirection(slope, mean, threshold float64) TrendDirection {
	if threshold < 0 {
		threshold = DefaultStableThreshold
	}
	band := threshold * abs(mean)
	switch {
	case slope > band:
		return TrendRising
	case slope < -band:
		return TrendFalling
	default:
		return TrendStable
	}
}

// ClassifyStrength maps a ratio onto the strength bands: above strong is
// strong, above moderate is moderate, anything else weak.
func ClassifyStrength(ratio, moderate, strong float64) Strength {
	switch {
	case ratio > strong:
		return StrengthStrong
	case ratio > moderate:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
