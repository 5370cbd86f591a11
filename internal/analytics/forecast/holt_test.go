package forecast

import (
	"math"
	"testing"
)

func TestHoltForecaster_Name(t *testing.T) {
	if NewHoltForecaster().Name() != "holt" {
		t.Error("Expected name 'holt'")
	}
}

func TestHoltForecaster_LinearTrend(t *testing.T) {
	values := generateLinearValues(20, 3.0, 10.0)

	model, err := NewHoltForecaster().Fit(values, DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if math.Abs(model.Slope-3.0) > 1e-9 {
		t.Errorf("Expected trend 3, got %f", model.Slope)
	}
	last := values[len(values)-1]
	for h := 1; h <= 5; h++ {
		want := last + 3.0*float64(h)
		if got := model.Predict(h); math.Abs(got-want) > 1e-9 {
			t.Errorf("h=%d: expected %f, got %f", h, want, got)
		}
	}
}

func TestHoltForecaster_InsufficientData(t *testing.T) {
	_, err := NewHoltForecaster().Fit([]float64{1}, DefaultOptions())
	if err == nil {
		t.Error("Expected error for a single value")
	}
}

func TestHoltForecaster_SmoothingOptions(t *testing.T) {
	// step from 100 to 150, then ten flat periods
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100
		if i >= 20 {
			values[i] = 150
		}
	}

	opts := DefaultOptions()
	opts.Alpha = 0.9
	opts.Beta = 0.9
	reactive, err := NewHoltForecaster().Fit(values, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	opts.Alpha = 0.1
	opts.Beta = 0.1
	smooth, err := NewHoltForecaster().Fit(values, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if got := reactive.Predict(1); math.Abs(got-150) > 1 {
		t.Errorf("Expected reactive model to settle at the new level, got %f", got)
	}
	if got := smooth.Predict(1); got > 148 {
		t.Errorf("Expected smooth model to lag the step, got %f", got)
	}
	if reactive.Sigma >= smooth.Sigma {
		t.Errorf("Expected reactive sigma (%f) below smooth sigma (%f) after a level shift", reactive.Sigma, smooth.Sigma)
	}
}
