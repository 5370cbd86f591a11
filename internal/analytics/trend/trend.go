// Package trend summarizes the direction, growth and smoothness of a series.
package trend

import (
	"fmt"
	"math"
	"strings"

	"github.com/cinar/indicator/v2/helper"
	indicator "github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

const (
	DefaultWindow     = 3
	DefaultLongWindow = 12
	DefaultAlpha      = 0.3

	// R² bands for trend strength
	DefaultModerateR2 = 0.3
	DefaultStrongR2   = 0.7

	// coefficient-of-variation bands for volatilityLevel
	DefaultLowVolatilityCV    = 0.15
	DefaultMediumVolatilityCV = 0.3
)

// Options configures Analyze
type Options struct {
	Window             int     // short moving average window, 3 by default
	LongWindow         int     // long moving average window, 12 by default
	Alpha              float64 // EMA smoothing in (0, 1]
	StableThreshold    float64 // see analytics.ClassifyDirection
	ModerateR2         float64
	StrongR2           float64
	LowVolatilityCV    float64
	MediumVolatilityCV float64
}

// DefaultOptions returns the default trend options
func DefaultOptions() Options {
	return Options{
		Window:             DefaultWindow,
		LongWindow:         DefaultLongWindow,
		Alpha:              DefaultAlpha,
		StableThreshold:    analytics.DefaultStableThreshold,
		ModerateR2:         DefaultModerateR2,
		StrongR2:           DefaultStrongR2,
		LowVolatilityCV:    DefaultLowVolatilityCV,
		MediumVolatilityCV: DefaultMediumVolatilityCV,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Window == 0 {
		o.Window = d.Window
	}
	if o.LongWindow == 0 {
		o.LongWindow = d.LongWindow
	}
	if o.Alpha == 0 {
		o.Alpha = d.Alpha
	}
	if o.StableThreshold <= 0 {
		o.StableThreshold = d.StableThreshold
	}
	if o.ModerateR2 <= 0 {
		o.ModerateR2 = d.ModerateR2
	}
	if o.StrongR2 <= 0 {
		o.StrongR2 = d.StrongR2
	}
	if o.LowVolatilityCV <= 0 {
		o.LowVolatilityCV = d.LowVolatilityCV
	}
	if o.MediumVolatilityCV <= 0 {
		o.MediumVolatilityCV = d.MediumVolatilityCV
	}
	return o
}

func (o Options) validate() error {
	if o.Window < 1 {
		return analytics.NewInvalidInput("window", "must be >= 1")
	}
	if o.LongWindow < 1 {
		return analytics.NewInvalidInput("longWindow", "must be >= 1")
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		return analytics.NewInvalidInput("alpha", "must be in (0, 1]")
	}
	return nil
}

// GrowthRate holds per-period percentage changes in series order. Periods
// whose predecessor is zero, or whose rate exceeds analytics.MaxMagnitude,
// have no usable rate; they are left out of PerPeriod and Avg and their
// indices listed in SkippedPeriods.
type GrowthRate struct {
	Avg            float64   `json:"avg"`
	PerPeriod      []float64 `json:"perPeriod"`
	SkippedPeriods []int     `json:"skippedPeriods"`
}

// MovingAverages are aligned to the end of the series: MA3[j] averages
// values[j .. j+Window-1]. Indices before the first full window are omitted.
type MovingAverages struct {
	MA3  []float64 `json:"ma3"`
	MA12 []float64 `json:"ma12"`
	EMA  []float64 `json:"ema"`
}

// Result is the output of Analyze
type Result struct {
	TrendDirection  analytics.TrendDirection `json:"trendDirection"`
	GrowthRate      GrowthRate               `json:"growthRate"`
	Volatility      float64                  `json:"volatility"`
	VolatilityLevel string                   `json:"volatilityLevel"`
	TrendStrength   analytics.Strength       `json:"trendStrength"`
	MovingAverages  MovingAverages           `json:"movingAverages"`
	Slope           float64                  `json:"slope"`
	Intercept       float64                  `json:"intercept"`
	RSquared        float64                  `json:"rSquared"`
	Summary         string                   `json:"summary"`
}

const (
	VolatilityLow    = "low"
	VolatilityMedium = "medium"
	VolatilityHigh   = "high"
)

// Analyze computes moving averages, growth rates, volatility and a linear
// trend classification. Series shorter than two values give a stable, weak,
// zero-volatility result with empty averages.
func Analyze(values []float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := analytics.ValidateValues("values", values); err != nil {
		return nil, err
	}

	if len(values) < 2 {
		return neutralResult(values), nil
	}

	fit := analytics.Fit(values)
	mean, std := analytics.MeanStdDev(values)
	growth := growthRates(values)
	volatility := analytics.PopStdDev(growth.PerPeriod)
	direction := analytics.ClassifyDirection(fit.Slope, mean, opts.StableThreshold)
	strength := analytics.ClassifyStrength(fit.RSquared, opts.ModerateR2, opts.StrongR2)

	result := &Result{
		TrendDirection:  direction,
		GrowthRate:      growth,
		Volatility:      analytics.Bounded(volatility),
		VolatilityLevel: volatilityLevel(mean, std, opts),
		TrendStrength:   strength,
		MovingAverages: MovingAverages{
			MA3:  SimpleMovingAverage(values, opts.Window),
			MA12: SimpleMovingAverage(values, opts.LongWindow),
			EMA:  ExponentialMovingAverage(values, opts.Alpha),
		},
		Slope:     fit.Slope,
		Intercept: fit.Intercept,
		RSquared:  fit.RSquared,
	}
	result.Summary = summarize(result)
	return result, nil
}

func neutralResult(values []float64) *Result {
	result := &Result{
		TrendDirection:  analytics.TrendStable,
		GrowthRate:      GrowthRate{PerPeriod: []float64{}, SkippedPeriods: []int{}},
		VolatilityLevel: VolatilityLow,
		TrendStrength:   analytics.StrengthWeak,
		MovingAverages: MovingAverages{
			MA3:  []float64{},
			MA12: []float64{},
			EMA:  []float64{},
		},
	}
	if len(values) == 1 {
		result.Intercept = values[0]
	}
	result.Summary = summarize(result)
	return result
}

// SimpleMovingAverage returns len(values)-(window-1) trailing means, or an
// empty slice when the series is shorter than the window.
func SimpleMovingAverage(values []float64, window int) []float64 {
	if window < 1 || len(values) < window {
		return []float64{}
	}
	sma := indicator.NewSmaWithPeriod[float64](window)
	return helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
}

// ExponentialMovingAverage seeds with the first value:
// ema[0] = v[0], ema[i] = alpha*v[i] + (1-alpha)*ema[i-1].
func ExponentialMovingAverage(values []float64, alpha float64) []float64 {
	ema := make([]float64, len(values))
	for i, v := range values {
		if i == 0 {
			ema[i] = v
			continue
		}
		ema[i] = alpha*v + (1-alpha)*ema[i-1]
	}
	return ema
}

func growthRates(values []float64) GrowthRate {
	g := GrowthRate{
		PerPeriod:      make([]float64, 0, len(values)-1),
		SkippedPeriods: []int{},
	}
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			g.SkippedPeriods = append(g.SkippedPeriods, i)
			continue
		}
		rate := (values[i] - values[i-1]) / values[i-1] * 100
		if math.Abs(rate) > analytics.MaxMagnitude {
			g.SkippedPeriods = append(g.SkippedPeriods, i)
			continue
		}
		g.PerPeriod = append(g.PerPeriod, rate)
	}
	g.Avg = analytics.Mean(g.PerPeriod)
	return g
}

// volatilityLevel buckets the coefficient of variation of the raw values
func volatilityLevel(mean, std float64, opts Options) string {
	if std == 0 {
		return VolatilityLow
	}
	if mean == 0 {
		return VolatilityHigh
	}
	cv := std / abs(mean)
	switch {
	case cv <= opts.LowVolatilityCV:
		return VolatilityLow
	case cv <= opts.MediumVolatilityCV:
		return VolatilityMedium
	default:
		return VolatilityHigh
	}
}

func summarize(r *Result) string {
	avg := decimal.NewFromFloat(analytics.Bounded(r.GrowthRate.Avg)).Round(2)
	return fmt.Sprintf("%s %s trend, average growth %s%% per period, %s volatility",
		capitalize(string(r.TrendStrength)), r.TrendDirection, avg.StringFixed(2), r.VolatilityLevel)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
