package climate

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

func samples(tempSlope, rainSlope float64, n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{
			Period:      fmt.Sprintf("2024-%02d", i+1),
			Temperature: 27 + tempSlope*float64(i),
			Rainfall:    150 + rainSlope*float64(i),
		}
	}
	return out
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name      string
		tempSlope float64
		rainSlope float64
		wantTemp  analytics.TrendDirection
		wantRain  RainfallPattern
		wantSev   Severity
	}{
		{"warming fast", 0.25, 3, analytics.TrendRising, RainfallIncreasing, SeverityHigh},
		{"warming slowly", 0.12, 0.5, analytics.TrendRising, RainfallStable, SeverityModerate},
		{"stable", 0.02, -0.5, analytics.TrendStable, RainfallStable, SeverityLow},
		{"cooling", -0.2, -4, analytics.TrendFalling, RainfallDecreasing, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Predict(samples(tt.tempSlope, tt.rainSlope, 12), DefaultOptions())
			require.NoError(t, err)

			assert.Equal(t, tt.wantTemp, result.TemperatureTrend)
			assert.Equal(t, tt.wantRain, result.RainfallPattern)
			assert.Equal(t, tt.wantSev, result.ImpactSeverity)
			assert.InDelta(t, tt.tempSlope*12, result.ProjectedTempChange, 1e-9)
			assert.Equal(t, DefaultRecommendations()[tt.wantSev], result.Recommendations)
			require.Len(t, result.Factors, 2)
		})
	}
}

func TestPredict_CurrentFormatting(t *testing.T) {
	result, err := Predict([]Sample{
		{Temperature: 27.34, Rainfall: 120.6},
		{Temperature: 27.96, Rainfall: 131.2},
	}, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "28.0°C", result.Factors[0].Current)
	assert.Equal(t, "131mm", result.Factors[1].Current)
}

func TestPredict_InsufficientData(t *testing.T) {
	result, err := Predict([]Sample{{Temperature: 28, Rainfall: 100}}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.InsufficientData)
	assert.Equal(t, analytics.TrendStable, result.TemperatureTrend)
	assert.Equal(t, SeverityLow, result.ImpactSeverity)
	assert.Empty(t, result.Factors)
}

func TestPredict_Timeframe(t *testing.T) {
	opts := DefaultOptions()
	opts.Timeframe = 24

	result, err := Predict(samples(0.06, 0, 10), opts)
	require.NoError(t, err)
	assert.Equal(t, SeverityModerate, result.ImpactSeverity)

	_, err = Predict(samples(0.06, 0, 10), Options{Timeframe: -1})
	assert.True(t, analytics.IsInvalidInput(err))
}

func TestPredict_NonFinite(t *testing.T) {
	s := samples(0.1, 1, 4)
	s[2].Rainfall = math.NaN()

	_, err := Predict(s, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samples.rainfall[2]")
}

func TestPredict_ExtremeValues(t *testing.T) {
	s := samples(0, 0, 3)
	s[1].Temperature = 1e200
	_, err := Predict(s, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "samples.temperature[1]")

	s = []Sample{
		{Period: "2024-01", Temperature: 1e150, Rainfall: 0},
		{Period: "2024-02", Temperature: -1e150, Rainfall: 1e150},
	}
	opts := DefaultOptions()
	opts.Timeframe = 1_000_000_000
	result, err := Predict(s, opts)
	require.NoError(t, err)
	assert.Equal(t, -analytics.MaxMagnitude, result.ProjectedTempChange)
	assert.Equal(t, SeverityHigh, result.ImpactSeverity)
	assert.Equal(t, analytics.TrendFalling, result.TemperatureTrend)
}
