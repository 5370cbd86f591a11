package seasonal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// InsightTemplates are the format strings behind Result.Insights. Replace
// them to localize output; the numeric result does not depend on them.
type InsightTemplates struct {
	// PeakPeriod and LowPeriod take the bucket label
	PeakPeriod string `mapstructure:"peak_period" json:"peakPeriod"`
	LowPeriod  string `mapstructure:"low_period" json:"lowPeriod"`
	// Recommendation takes the peak label
	Recommendation string `mapstructure:"recommendation" json:"recommendation"`
	// Strength takes the strength band and the amplitude as a percentage
	Strength string `mapstructure:"strength" json:"strength"`
	// NoSeasonality has no verbs
	NoSeasonality string `mapstructure:"no_seasonality" json:"noSeasonality"`
	// InsufficientData takes the required and actual lengths
	InsufficientData string `mapstructure:"insufficient_data" json:"insufficientData"`
}

// DefaultTemplates returns the English templates
func DefaultTemplates() InsightTemplates {
	return InsightTemplates{
		PeakPeriod:       "Highest values typically in %s",
		LowPeriod:        "Lowest values typically in %s",
		Recommendation:   "Plan activities considering %s peak season",
		Strength:         "Seasonal pattern is %s, bucket means vary by %s%% of the series mean",
		NoSeasonality:    "No significant seasonal pattern detected",
		InsufficientData: "Insufficient data for seasonal analysis: need at least %d values, have %d",
	}
}

// WithDefaults fills every empty template from DefaultTemplates
func (t InsightTemplates) WithDefaults() InsightTemplates {
	d := DefaultTemplates()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&t.PeakPeriod, d.PeakPeriod},
		{&t.LowPeriod, d.LowPeriod},
		{&t.Recommendation, d.Recommendation},
		{&t.Strength, d.Strength},
		{&t.NoSeasonality, d.NoSeasonality},
		{&t.InsufficientData, d.InsufficientData},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return t
}

func (t *InsightTemplates) insufficient(period, have int) string {
	return fmt.Sprintf(t.InsufficientData, period, have)
}

func (t *InsightTemplates) render(r *Result) []string {
	pct := decimal.NewFromFloat(analytics.Bounded(r.AmplitudeRatio)).Mul(decimal.NewFromInt(100)).StringFixed(1)

	if !r.HasSeasonality {
		return []string{
			t.NoSeasonality,
			fmt.Sprintf(t.Strength, r.Strength, pct),
		}
	}
	return []string{
		fmt.Sprintf(t.PeakPeriod, r.PeakLabel),
		fmt.Sprintf(t.LowPeriod, r.TroughLabel),
		fmt.Sprintf(t.Strength, r.Strength, pct),
		fmt.Sprintf(t.Recommendation, r.PeakLabel),
	}
}
