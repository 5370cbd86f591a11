// Package anomaly flags statistical outliers in a series and grades them by
// how far they sit from the series mean.
package anomaly

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

// AnomalyType represents the direction of an anomaly
type AnomalyType string

const (
	AnomalyTypeSpike AnomalyType = "spike" // above the mean
	AnomalyTypeDip   AnomalyType = "dip"   // below the mean
)

// Severity grades an anomaly by |zScore|
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Range represents expected value range
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Anomaly is one flagged value. ZScore is always (value-mean)/stdDev against
// the whole series, whichever detector flagged it.
type Anomaly struct {
	Index    int         `json:"index"`
	Value    float64     `json:"value"`
	ZScore   float64     `json:"zScore"`
	Type     AnomalyType `json:"type"`
	Severity Severity    `json:"severity"`
}

// Statistics are the series-level figures anomalies are measured against
type Statistics struct {
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"stdDev"`
	UpperThreshold float64 `json:"upperThreshold"`
	LowerThreshold float64 `json:"lowerThreshold"`
}

// Result is the output of Detect
type Result struct {
	Method      string     `json:"method"`
	Anomalies   []Anomaly  `json:"anomalies"`
	AnomalyRate float64    `json:"anomalyRate"`
	Statistics  Statistics `json:"statistics"`
}

// Options holds configuration for anomaly detection
type Options struct {
	// Threshold is the |zScore| above which the zscore detector flags a value
	Threshold float64

	// Method is the registered detector name
	Method string

	// WarningZ and CriticalZ are the severity bands
	WarningZ  float64
	CriticalZ float64

	// IQRMultiplier sets the Tukey fences for the iqr detector
	IQRMultiplier float64

	// LocalWindow is the neighbourhood size for the moving_avg detector
	LocalWindow int
}

const (
	DefaultThreshold     = 2.0
	DefaultMethod        = "zscore"
	DefaultWarningZ      = 2.5
	DefaultCriticalZ     = 3.0
	DefaultIQRMultiplier = 1.5
)

// DefaultOptions returns default detector configuration
func DefaultOptions() Options {
	return Options{
		Threshold:     DefaultThreshold,
		Method:        DefaultMethod,
		WarningZ:      DefaultWarningZ,
		CriticalZ:     DefaultCriticalZ,
		IQRMultiplier: DefaultIQRMultiplier,
		LocalWindow:   DefaultLocalWindow,
	}
}

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Method == "" {
		o.Method = DefaultMethod
	}
	if o.WarningZ <= 0 {
		o.WarningZ = DefaultWarningZ
	}
	if o.CriticalZ <= 0 {
		o.CriticalZ = DefaultCriticalZ
	}
	if o.IQRMultiplier <= 0 {
		o.IQRMultiplier = DefaultIQRMultiplier
	}
	return o
}

// Candidate is a value a detector considers anomalous
type Candidate struct {
	Index int
	Type  AnomalyType
}

// Detector interface for all anomaly detection algorithms
type Detector interface {
	// Name returns the algorithm name
	Name() string

	// Flag returns the anomalous indices in ascending order and the
	// expected range it tested against. stats.StdDev is never zero.
	Flag(values []float64, stats Statistics, opts Options) ([]Candidate, Range)
}

var (
	registryMu       sync.RWMutex
	detectorRegistry = make(map[string]Detector)
)

// RegisterDetector adds a detector to the registry
func RegisterDetector(detector Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	detectorRegistry[detector.Name()] = detector
}

// GetDetector returns a detector by name
func GetDetector(name string) (Detector, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if detector, ok := detectorRegistry[name]; ok {
		return detector, nil
	}
	return nil, fmt.Errorf("unknown anomaly detector: %s", name)
}

// ListDetectors returns the sorted names of available detectors
func ListDetectors() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(detectorRegistry))
	for name := range detectorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect flags anomalies with the configured detector. Empty and constant
// series yield no anomalies.
func Detect(values []float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if opts.Threshold < 0 {
		return nil, analytics.NewInvalidInput("threshold", "must be positive")
	}
	if err := analytics.ValidateValues("values", values); err != nil {
		return nil, err
	}
	detector, err := GetDetector(opts.Method)
	if err != nil {
		return nil, analytics.NewInvalidInput("method", err.Error())
	}

	mean, stdDev := analytics.MeanStdDev(values)
	result := &Result{
		Method:    detector.Name(),
		Anomalies: []Anomaly{},
		Statistics: Statistics{
			Mean:           mean,
			StdDev:         stdDev,
			UpperThreshold: mean,
			LowerThreshold: mean,
		},
	}
	if len(values) == 0 || stdDev == 0 {
		return result, nil
	}

	candidates, expected := detector.Flag(values, result.Statistics, opts)
	result.Statistics.UpperThreshold = expected.Max
	result.Statistics.LowerThreshold = expected.Min

	for _, c := range candidates {
		z := (values[c.Index] - mean) / stdDev
		result.Anomalies = append(result.Anomalies, Anomaly{
			Index:    c.Index,
			Value:    values[c.Index],
			ZScore:   z,
			Type:     c.Type,
			Severity: ClassifySeverity(z, opts),
		})
	}
	result.AnomalyRate = Rate(len(result.Anomalies), len(values))
	return result, nil
}

// ClassifySeverity grades a z-score: above CriticalZ is critical, above
// WarningZ is warning, anything else is info.
func ClassifySeverity(z float64, opts Options) Severity {
	opts = opts.withDefaults()
	if z < 0 {
		z = -z
	}
	switch {
	case z > opts.CriticalZ:
		return SeverityCritical
	case z > opts.WarningZ:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Rate returns count/total as a percentage rounded to two decimals
func Rate(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	if count > total {
		count = total
	}
	pct := decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	return pct.InexactFloat64()
}

func typeOf(value, mean float64) AnomalyType {
	if value > mean {
		return AnomalyTypeSpike
	}
	return AnomalyTypeDip
}
