package forecast

import (
	"math"
	"testing"
)

func TestAutoForecaster_Name(t *testing.T) {
	if NewAutoForecaster().Name() != "auto" {
		t.Error("Expected name 'auto'")
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"strong trend", generateLinearValues(30, 5.0, 0), "linear"},
		{"long trendless", generateNoisyValues(30, 0, 5.0), "exponential"},
		{"short trendless", generateNoisyValues(10, 0, 5.0), "sma"},
		{"too short for trend", []float64{1, 2, 3, 4}, "sma"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.values).Name(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAutoForecaster_DelegatesToLinear(t *testing.T) {
	values := generateLinearValues(20, 2.0, 10.0)

	model, err := NewAutoForecaster().Fit(values, DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(model.Slope-2.0) > 1e-9 {
		t.Errorf("Expected slope 2, got %f", model.Slope)
	}
	want := 2.0*20 + 10.0
	if got := model.Predict(1); math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %f, got %f", want, got)
	}
}

func TestForecast_AutoMethod(t *testing.T) {
	opts := DefaultOptions()
	opts.Method = "auto"

	result, err := Forecast("auto", monthlyHistory(5, 9, 4, 8, 5, 9, 4, 8), opts)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.Method != "sma" {
		t.Errorf("Expected auto to report the selected sma model, got %s", result.Method)
	}
	if len(result.Forecast) != DefaultPeriodsAhead {
		t.Errorf("Expected %d points, got %d", DefaultPeriodsAhead, len(result.Forecast))
	}
}

func TestForecast_AutoReportsSelectedModel(t *testing.T) {
	opts := DefaultOptions()
	opts.Method = "auto"

	result, err := Forecast("auto", monthlyHistory(generateLinearValues(12, 4.0, 20)...), opts)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if result.Method != "linear" {
		t.Errorf("Expected linear, got %s", result.Method)
	}
	if math.Abs(result.Slope-4.0) > 1e-9 {
		t.Errorf("Expected slope 4, got %f", result.Slope)
	}

	short, err := Forecast("auto", monthlyHistory(7), opts)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}
	if short.Method != "auto" {
		t.Errorf("Expected auto for an unfitted history, got %s", short.Method)
	}
}
