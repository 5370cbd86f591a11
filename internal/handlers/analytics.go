package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/nara-ocean/marine-analytics/internal/analytics"
	"github.com/nara-ocean/marine-analytics/internal/analytics/climate"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/models"
	"github.com/nara-ocean/marine-analytics/internal/services"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// Forecast handles POST /v1/forecast
func (h *Handler) Forecast(c *fiber.Ctx) error {
	var body models.ForecastRequest
	if err := h.parseBody(c, &body); err != nil {
		return err
	}

	history := make([]analytics.TimeSeriesPoint, len(body.History))
	for i, p := range body.History {
		v, ok := utils.ToFloat64(p.Value)
		if !ok {
			return services.NewServiceErrorWithDetails(services.CodeInvalidInput,
				fmt.Sprintf("history[%d].value is not a finite number", i),
				map[string]interface{}{"field": "history.value", "index": i})
		}
		history[i] = analytics.TimeSeriesPoint{Period: p.Period, Value: v}
	}

	out, err := h.analytics.Forecast(c.UserContext(), services.ForecastRequest{
		SeriesID:     body.SeriesID,
		History:      history,
		PeriodsAhead: body.PeriodsAhead,
		Method:       body.Method,
		Confidence:   body.Confidence,
	})
	if err != nil {
		return err
	}
	return respond(c, out.PredictionID, out.Result)
}

// Trend handles POST /v1/trend
func (h *Handler) Trend(c *fiber.Ctx) error {
	var body models.TrendRequest
	if err := h.parseBody(c, &body); err != nil {
		return err
	}
	values, err := numbers("values", body.Values)
	if err != nil {
		return err
	}

	out, err := h.analytics.Trend(c.UserContext(), services.TrendRequest{
		SeriesID: body.SeriesID,
		Values:   values,
		Alpha:    body.Alpha,
	})
	if err != nil {
		return err
	}
	return respond(c, out.PredictionID, out.Result)
}

// Anomalies handles POST /v1/anomalies
func (h *Handler) Anomalies(c *fiber.Ctx) error {
	var body models.AnomalyRequest
	if err := h.parseBody(c, &body); err != nil {
		return err
	}
	values, err := numbers("values", body.Values)
	if err != nil {
		return err
	}

	out, err := h.analytics.Anomalies(c.UserContext(), services.AnomalyRequest{
		SeriesID:  body.SeriesID,
		Values:    values,
		Threshold: body.Threshold,
		Method:    body.Method,
	})
	if err != nil {
		return err
	}
	return respond(c, out.PredictionID, out.Result)
}

// Seasonal handles POST /v1/seasonal
func (h *Handler) Seasonal(c *fiber.Ctx) error {
	var body models.SeasonalRequest
	if err := h.parseBody(c, &body); err != nil {
		return err
	}
	values, err := numbers("values", body.Values)
	if err != nil {
		return err
	}

	out, err := h.analytics.Seasonal(c.UserContext(), services.SeasonalRequest{
		SeriesID: body.SeriesID,
		Values:   values,
		Period:   body.Period,
	})
	if err != nil {
		return err
	}
	return respond(c, out.PredictionID, out.Result)
}

// Accuracy handles POST /v1/forecast/accuracy
func (h *Handler) Accuracy(c *fiber.Ctx) error {
	var body models.AccuracyRequest
	if err := h.parseBody(c, &body); err != nil {
		return err
	}

	pairs := make([]forecast.ActualVsForecast, len(body.Pairs))
	for i, p := range body.Pairs {
		pairs[i] = forecast.ActualVsForecast{Forecast: *p.Forecast, Actual: *p.Actual}
	}

	out, err := h.analytics.Accuracy(c.UserContext(), services.AccuracyRequest{
		SeriesID: body.SeriesID,
		Pairs:    pairs,
	})
	if err != nil {
		return err
	}
	return respond(c, out.PredictionID, out.Result)
}

// ClimateImpact handles POST /v1/climate-impact
func (h *Handler) ClimateImpact(c *fiber.Ctx) error {
	var body models.ClimateRequest
	if err := h.parseBody(c, &body); err != nil {
		return err
	}

	samples := make([]climate.Sample, len(body.Samples))
	for i, s := range body.Samples {
		samples[i] = climate.Sample{Period: s.Period, Temperature: *s.Temperature, Rainfall: *s.Rainfall}
	}

	out, err := h.analytics.ClimateImpact(c.UserContext(), services.ClimateRequest{
		SeriesID:  body.Region,
		Samples:   samples,
		Timeframe: body.Timeframe,
	})
	if err != nil {
		return err
	}
	return respond(c, out.PredictionID, out.Result)
}
