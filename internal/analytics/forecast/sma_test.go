package forecast

import (
	"math"
	"testing"
)

func TestSMAForecaster_Name(t *testing.T) {
	if NewSMAForecaster().Name() != "sma" {
		t.Error("Expected name 'sma'")
	}
}

func TestSMAForecaster_TrailingWindow(t *testing.T) {
	values := []float64{10, 10, 10, 10, 20, 30, 40}

	opts := DefaultOptions()
	opts.Window = 3
	model, err := NewSMAForecaster().Fit(values, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for h := 1; h <= 3; h++ {
		if got := model.Predict(h); math.Abs(got-30) > 1e-9 {
			t.Errorf("h=%d: expected flat 30, got %f", h, got)
		}
	}
	if model.Slope <= 0 {
		t.Errorf("Expected positive slope, got %f", model.Slope)
	}
}

func TestSMAForecaster_WindowLargerThanSeries(t *testing.T) {
	values := []float64{2, 4, 6}

	opts := DefaultOptions()
	opts.Window = 50
	model, err := NewSMAForecaster().Fit(values, opts)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if got := model.Predict(1); math.Abs(got-4) > 1e-9 {
		t.Errorf("Expected mean of all values 4, got %f", got)
	}
}

func TestSMAForecaster_ConstantSeries(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7, 7, 7, 7}

	model, err := NewSMAForecaster().Fit(values, DefaultOptions())
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if model.Sigma != 0 {
		t.Errorf("Expected zero sigma, got %f", model.Sigma)
	}
	if model.Slope != 0 {
		t.Errorf("Expected zero slope, got %f", model.Slope)
	}
}

func TestSMAForecaster_InsufficientData(t *testing.T) {
	if _, err := NewSMAForecaster().Fit([]float64{1}, DefaultOptions()); err == nil {
		t.Error("Expected error for a single value")
	}
}
