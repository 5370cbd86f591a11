package forecast

import (
	"math"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
)

const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingFair      = "fair"
)

// minBacktestHistory is the shortest history that leaves a 3-point training
// window and at least one held-out point.
const minBacktestHistory = 4

// backtest fits on all but the last k points and scores the held-out tail.
// k = min(BacktestPeriods, n-3).
func backtest(values []float64, forecaster Forecaster, opts Options) Accuracy {
	n := len(values)
	if n < minBacktestHistory {
		return Accuracy{}
	}
	k := opts.BacktestPeriods
	if k > n-3 {
		k = n - 3
	}

	train, holdout := values[:n-k], values[n-k:]
	model, err := forecaster.Fit(train, opts)
	if err != nil {
		return Accuracy{}
	}

	predicted := make([]float64, k)
	for h := 1; h <= k; h++ {
		predicted[h-1] = model.Predict(h)
	}

	mape, ok := meanAbsolutePercentageError(holdout, predicted)
	if !ok {
		// every held-out actual was zero
		return Accuracy{HoldoutPeriods: k}
	}

	score := Score(mape)
	return Accuracy{
		MAPE:           &mape,
		Score:          &score,
		Rating:         Rate(score),
		HoldoutPeriods: k,
		Backtested:     true,
	}
}

// Score converts a MAPE into a 0-100 accuracy score
func Score(mape float64) float64 {
	return math.Max(0, 100-mape)
}

// Rate buckets an accuracy score
func Rate(score float64) string {
	switch {
	case score > 80:
		return RatingExcellent
	case score > 60:
		return RatingGood
	default:
		return RatingFair
	}
}

// ActualVsForecast pairs a published forecast with the observed value
type ActualVsForecast struct {
	Forecast float64 `json:"forecast"`
	Actual   float64 `json:"actual"`
}

// AccuracyReport scores a forecast after the fact
type AccuracyReport struct {
	MAPE    *float64 `json:"mape"`
	Score   *float64 `json:"score"`
	Rating  string   `json:"rating"`
	Samples int      `json:"samples"`
	Skipped int      `json:"skipped"`
	MAE     float64  `json:"mae"`
	RMSE    float64  `json:"rmse"`
}

// EvaluateAccuracy compares published forecasts with what was observed.
// Pairs with a zero actual do not contribute to MAPE. When nothing can be
// scored, MAPE and Score are nil and the rating is empty.
func EvaluateAccuracy(pairs []ActualVsForecast) (*AccuracyReport, error) {
	actual := make([]float64, len(pairs))
	predicted := make([]float64, len(pairs))
	for i, p := range pairs {
		actual[i] = p.Actual
		predicted[i] = p.Forecast
	}
	if err := analytics.ValidateValues("pairs.actual", actual); err != nil {
		return nil, err
	}
	if err := analytics.ValidateValues("pairs.forecast", predicted); err != nil {
		return nil, err
	}

	skipped := 0
	for _, a := range actual {
		if a == 0 {
			skipped++
		}
	}

	report := &AccuracyReport{
		Samples: len(pairs),
		Skipped: skipped,
		MAE:     CalculateMAE(actual, predicted),
		RMSE:    CalculateRMSE(actual, predicted),
	}

	mape, ok := meanAbsolutePercentageError(actual, predicted)
	if !ok {
		return report, nil
	}
	score := Score(mape)
	report.MAPE = &mape
	report.Score = &score
	report.Rating = Rate(score)
	return report, nil
}
