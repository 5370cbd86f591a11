package anomaly

import (
	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// IQRDetector detects anomalies using Interquartile Range (IQR) method
// IQR is robust to outliers compared to Z-Score
// Anomalies are points outside [Q1 - k*IQR, Q3 + k*IQR] where k is typically 1.5
type IQRDetector struct{}

func init() {
	RegisterDetector(&IQRDetector{})
}

// Name returns the algorithm name
func (iqr *IQRDetector) Name() string {
	return "iqr"
}

// Flag finds anomalies outside the Tukey fences
func (iqr *IQRDetector) Flag(values []float64, stats Statistics, opts Options) ([]Candidate, Range) {
	q1, q3, spread := CalculateIQR(values)
	expected := Range{
		Min: q1 - opts.IQRMultiplier*spread,
		Max: q3 + opts.IQRMultiplier*spread,
	}

	var candidates []Candidate
	for i, v := range values {
		if v < expected.Min || v > expected.Max {
			anomalyType := AnomalyTypeDip
			if v > expected.Max {
				anomalyType = AnomalyTypeSpike
			}
			candidates = append(candidates, Candidate{Index: i, Type: anomalyType})
		}
	}
	return candidates, expected
}

// CalculateIQR returns Q1, Q3, and IQR for a slice of values
func CalculateIQR(values []float64) (q1, q3, iqr float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	q1 = analytics.Quantile(values, 0.25)
	q3 = analytics.Quantile(values, 0.75)
	return q1, q3, q3 - q1
}
