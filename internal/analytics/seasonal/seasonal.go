// Package seasonal decides whether a series repeats on a fixed period and
// describes where its peaks and troughs fall.
package seasonal

import (
	"strconv"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

const (
	// DefaultFThreshold is the between/within variance ratio above which a
	// series with replicated buckets is seasonal.
	DefaultFThreshold = 3.0

	// DefaultAmplitudeThreshold decides single-cycle series, which have no
	// within-bucket variance to test against.
	DefaultAmplitudeThreshold = 0.15

	DefaultModerateRatio = 0.15
	DefaultStrongRatio   = 0.3
)

// Decision methods reported in Result.Method
const (
	MethodANOVA     = "anova"
	MethodAmplitude = "amplitude"
	MethodNone      = "none"
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
var quarterLabels = []string{"Q1", "Q2", "Q3", "Q4"}

// Options configures Analyze
type Options struct {
	FThreshold         float64
	AmplitudeThreshold float64
	ModerateRatio      float64
	StrongRatio        float64
	// Labels names the buckets; used only when len(Labels) == period
	Labels []string
	// Templates renders insights. Nil or empty templates fall back to
	// DefaultTemplates().
	Templates *InsightTemplates
}

// DefaultOptions returns the default seasonal options
func DefaultOptions() Options {
	return Options{
		FThreshold:         DefaultFThreshold,
		AmplitudeThreshold: DefaultAmplitudeThreshold,
		ModerateRatio:      DefaultModerateRatio,
		StrongRatio:        DefaultStrongRatio,
	}
}

func (o Options) withDefaults() Options {
	if o.FThreshold <= 0 {
		o.FThreshold = DefaultFThreshold
	}
	if o.AmplitudeThreshold <= 0 {
		o.AmplitudeThreshold = DefaultAmplitudeThreshold
	}
	if o.ModerateRatio <= 0 {
		o.ModerateRatio = DefaultModerateRatio
	}
	if o.StrongRatio <= 0 {
		o.StrongRatio = DefaultStrongRatio
	}
	t := DefaultTemplates()
	if o.Templates != nil {
		t = o.Templates.WithDefaults()
	}
	o.Templates = &t
	return o
}

// Bucket is the mean of every value at one position in the cycle
type Bucket struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Result is the output of Analyze. PeakMonth and TroughMonth are 0-indexed
// bucket positions, -1 when there was not enough data.
type Result struct {
	Period           int                `json:"period"`
	HasSeasonality   bool               `json:"hasSeasonality"`
	PeakMonth        int                `json:"peakMonth"`
	TroughMonth      int                `json:"troughMonth"`
	PeakLabel        string             `json:"peakLabel,omitempty"`
	TroughLabel      string             `json:"troughLabel,omitempty"`
	Strength         analytics.Strength `json:"strength"`
	AmplitudeRatio   float64            `json:"amplitudeRatio"`
	FRatio           *float64           `json:"fRatio"`
	Method           string             `json:"method"`
	Pattern          []Bucket           `json:"pattern"`
	Insights         []string           `json:"insights"`
	InsufficientData bool               `json:"insufficientData"`
}

// Analyze groups values by i%period and tests whether the bucket means
// differ. With replicated buckets the decision is a one-way ANOVA F-ratio
// against FThreshold; a single cycle falls back to the amplitude ratio.
func Analyze(values []float64, period int, opts Options) (*Result, error) {
	if period < 2 {
		return nil, analytics.NewInvalidInput("period", "must be >= 2")
	}
	if err := analytics.ValidateValues("values", values); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	labels := bucketLabels(period, opts.Labels)

	if len(values) < period {
		return &Result{
			Period:           period,
			PeakMonth:        -1,
			TroughMonth:      -1,
			Strength:         analytics.StrengthWeak,
			Method:           MethodNone,
			Pattern:          []Bucket{},
			Insights:         []string{opts.Templates.insufficient(period, len(values))},
			InsufficientData: true,
		}, nil
	}

	buckets := bucketMeans(values, period, labels)
	means := make([]float64, period)
	for i, b := range buckets {
		means[i] = b.Mean
	}
	peak, trough := argMax(means), argMin(means)
	ratio := amplitudeRatio(values, means)

	result := &Result{
		Period:         period,
		PeakMonth:      peak,
		TroughMonth:    trough,
		PeakLabel:      labels[peak],
		TroughLabel:    labels[trough],
		Strength:       analytics.ClassifyStrength(ratio, opts.ModerateRatio, opts.StrongRatio),
		AmplitudeRatio: ratio,
		Pattern:        buckets,
	}

	anova := oneWayANOVA(values, buckets)
	switch {
	case anova.dfWithin == 0:
		result.Method = MethodAmplitude
		result.HasSeasonality = ratio >= opts.AmplitudeThreshold
	case anova.msWithin == 0:
		// perfectly repeating cycle: seasonal unless every bucket is equal
		result.Method = MethodANOVA
		result.HasSeasonality = anova.msBetween > 0
	default:
		result.Method = MethodANOVA
		f := analytics.Bounded(anova.msBetween / anova.msWithin)
		result.FRatio = &f
		result.HasSeasonality = f > opts.FThreshold
	}

	result.Insights = opts.Templates.render(result)
	return result, nil
}

func bucketLabels(period int, custom []string) []string {
	if len(custom) == period {
		return custom
	}
	switch period {
	case 12:
		return monthLabels
	case 4:
		return quarterLabels
	}
	labels := make([]string, period)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

func bucketMeans(values []float64, period int, labels []string) []Bucket {
	buckets := make([]Bucket, period)
	sums := make([]float64, period)
	for i := range buckets {
		buckets[i] = Bucket{Index: i, Label: labels[i]}
	}
	for i, v := range values {
		sums[i%period] += v
		buckets[i%period].Count++
	}
	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].Mean = sums[i] / float64(buckets[i].Count)
		}
	}
	return buckets
}

type anovaResult struct {
	msBetween float64
	msWithin  float64
	dfWithin  int
}

func oneWayANOVA(values []float64, buckets []Bucket) anovaResult {
	grand := analytics.Mean(values)
	k := len(buckets)
	n := len(values)

	var ssBetween, ssWithin float64
	for _, b := range buckets {
		d := b.Mean - grand
		ssBetween += float64(b.Count) * d * d
	}
	for i, v := range values {
		d := v - buckets[i%k].Mean
		ssWithin += d * d
	}

	res := anovaResult{dfWithin: n - k}
	res.msBetween = ssBetween / float64(k-1)
	if res.dfWithin > 0 {
		res.msWithin = ssWithin / float64(res.dfWithin)
	}
	return res
}

// amplitudeRatio is the spread of the bucket means relative to the level of
// the series. A zero-mean series is measured against its mean magnitude.
// Near-zero levels saturate at analytics.MaxMagnitude.
func amplitudeRatio(values, means []float64) float64 {
	spread := analytics.PopStdDev(means)
	if spread == 0 {
		return 0
	}
	level := abs(analytics.Mean(values))
	if level == 0 {
		for _, v := range values {
			level += abs(v)
		}
		level /= float64(len(values))
	}
	if level == 0 {
		return 0
	}
	return analytics.Bounded(spread / level)
}

// argMax returns the first index of the largest value
func argMax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// argMin returns the first index of the smallest value
func argMin(values []float64) int {
	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}
	return best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
