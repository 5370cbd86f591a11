// Package climate projects how temperature and rainfall trends will change
// over a timeframe and grades the expected ecosystem impact.
package climate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// Sample is one observation period
type Sample struct {
	Period      string  `json:"period"`
	Temperature float64 `json:"temperature"` // °C
	Rainfall    float64 `json:"rainfall"`    // mm
}

// Severity of the projected temperature change
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

// RainfallPattern is the direction of the rainfall trend
type RainfallPattern string

const (
	RainfallIncreasing RainfallPattern = "increasing"
	RainfallDecreasing RainfallPattern = "decreasing"
	RainfallStable     RainfallPattern = "stable"
)

const (
	DefaultTimeframe = 12

	// per-period slopes below these magnitudes are stable
	DefaultTemperatureSlope = 0.1
	DefaultRainfallSlope    = 1.0

	// projected |°C| change bands
	DefaultHighChange     = 2.0
	DefaultModerateChange = 1.0
)

// Options configures Predict
type Options struct {
	Timeframe        int // periods ahead, DefaultTimeframe when 0
	TemperatureSlope float64
	RainfallSlope    float64
	HighChange       float64
	ModerateChange   float64
	// Recommendations per severity; DefaultRecommendations() when nil
	Recommendations map[Severity][]string
}

// DefaultOptions returns the default climate options
func DefaultOptions() Options {
	return Options{
		Timeframe:        DefaultTimeframe,
		TemperatureSlope: DefaultTemperatureSlope,
		RainfallSlope:    DefaultRainfallSlope,
		HighChange:       DefaultHighChange,
		ModerateChange:   DefaultModerateChange,
		Recommendations:  DefaultRecommendations(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeframe == 0 {
		o.Timeframe = d.Timeframe
	}
	if o.TemperatureSlope <= 0 {
		o.TemperatureSlope = d.TemperatureSlope
	}
	if o.RainfallSlope <= 0 {
		o.RainfallSlope = d.RainfallSlope
	}
	if o.HighChange <= 0 {
		o.HighChange = d.HighChange
	}
	if o.ModerateChange <= 0 {
		o.ModerateChange = d.ModerateChange
	}
	if o.Recommendations == nil {
		o.Recommendations = d.Recommendations
	}
	return o
}

// DefaultRecommendations returns the built-in actions per severity
func DefaultRecommendations() map[Severity][]string {
	return map[Severity][]string{
		SeverityHigh: {
			"Implement immediate conservation measures",
			"Increase monitoring frequency",
			"Alert stakeholders and fishing communities",
			"Activate emergency response protocols",
		},
		SeverityModerate: {
			"Enhanced monitoring of affected areas",
			"Prepare contingency plans",
			"Increase research efforts",
			"Stakeholder awareness campaigns",
		},
		SeverityLow: {
			"Continue regular monitoring",
			"Document changes for future analysis",
			"Maintain current conservation efforts",
		},
	}
}

// Factor describes one driver of the projection
type Factor struct {
	Factor  string  `json:"factor"`
	Current string  `json:"current"`
	Trend   string  `json:"trend"`
	Slope   float64 `json:"slope"`
	Impact  string  `json:"impact"`
}

// Result is the output of Predict
type Result struct {
	Timeframe           int                      `json:"timeframe"`
	TemperatureTrend    analytics.TrendDirection `json:"temperatureTrend"`
	RainfallPattern     RainfallPattern          `json:"rainfallPattern"`
	ProjectedTempChange float64                  `json:"projectedTempChange"`
	ImpactSeverity      Severity                 `json:"impactSeverity"`
	Factors             []Factor                 `json:"factors"`
	Recommendations     []string                 `json:"recommendations"`
	InsufficientData    bool                     `json:"insufficientData"`
}

// Predict fits linear trends to temperature and rainfall and projects the
// temperature change over opts.Timeframe periods. Fewer than two samples give
// a stable, low-severity result.
func Predict(samples []Sample, opts Options) (*Result, error) {
	if opts.Timeframe < 0 {
		return nil, analytics.NewInvalidInput("timeframe", "must be >= 1")
	}
	opts = opts.withDefaults()

	temperatures := make([]float64, len(samples))
	rainfall := make([]float64, len(samples))
	for i, s := range samples {
		temperatures[i] = s.Temperature
		rainfall[i] = s.Rainfall
	}
	if err := analytics.ValidateValues("samples.temperature", temperatures); err != nil {
		return nil, err
	}
	if err := analytics.ValidateValues("samples.rainfall", rainfall); err != nil {
		return nil, err
	}

	if len(samples) < 2 {
		return &Result{
			Timeframe:        opts.Timeframe,
			TemperatureTrend: analytics.TrendStable,
			RainfallPattern:  RainfallStable,
			ImpactSeverity:   SeverityLow,
			Factors:          []Factor{},
			Recommendations:  recommendations(opts, SeverityLow),
			InsufficientData: true,
		}, nil
	}

	tempSlope := analytics.Fit(temperatures).Slope
	rainSlope := analytics.Fit(rainfall).Slope
	change := analytics.Bounded(tempSlope * float64(opts.Timeframe))
	severity := classifySeverity(change, opts)
	tempTrend := temperatureTrend(tempSlope, opts.TemperatureSlope)
	rainPattern := rainfallPattern(rainSlope, opts.RainfallSlope)
	last := samples[len(samples)-1]

	return &Result{
		Timeframe:           opts.Timeframe,
		TemperatureTrend:    tempTrend,
		RainfallPattern:     rainPattern,
		ProjectedTempChange: change,
		ImpactSeverity:      severity,
		Factors: []Factor{
			{
				Factor:  "temperature",
				Current: decimal.NewFromFloat(last.Temperature).StringFixed(1) + "°C",
				Trend:   string(tempTrend),
				Slope:   tempSlope,
				Impact:  "Temperature changes may affect fish migration patterns",
			},
			{
				Factor:  "rainfall",
				Current: decimal.NewFromFloat(last.Rainfall).StringFixed(0) + "mm",
				Trend:   string(rainPattern),
				Slope:   rainSlope,
				Impact:  "Changes in rainfall affect coastal water salinity",
			},
		},
		Recommendations: recommendations(opts, severity),
	}, nil
}

func classifySeverity(change float64, opts Options) Severity {
	if change < 0 {
		change = -change
	}
	switch {
	case change > opts.HighChange:
		return SeverityHigh
	case change > opts.ModerateChange:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

func temperatureTrend(slope, threshold float64) analytics.TrendDirection {
	switch {
	case slope > threshold:
		return analytics.TrendRising
	case slope < -threshold:
		return analytics.TrendFalling
	default:
		return analytics.TrendStable
	}
}

func rainfallPattern(slope, threshold float64) RainfallPattern {
	switch {
	case slope > threshold:
		return RainfallIncreasing
	case slope < -threshold:
		return RainfallDecreasing
	default:
		return RainfallStable
	}
}

func recommendations(opts Options, severity Severity) []string {
	recs, ok := opts.Recommendations[severity]
	if !ok {
		recs = opts.Recommendations[SeverityLow]
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

// String implements fmt.Stringer for log fields
func (r *Result) String() string {
	return fmt.Sprintf("temperature %s, rainfall %s, severity %s", r.TemperatureTrend, r.RainfallPattern, r.ImpactSeverity)
}
