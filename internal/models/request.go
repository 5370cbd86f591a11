package models

// HistoryPoint is one observation of a forecast history. Value is decoded
// loosely so a non-numeric element can be reported by index.
type HistoryPoint struct {
	Period string      `json:"period" validate:"max=64"`
	Value  interface{} `json:"value"`
}

// ForecastRequest represents the forecast request body
type ForecastRequest struct {
	SeriesID     string         `json:"seriesId" validate:"max=128"`
	History      []HistoryPoint `json:"history" validate:"dive"`
	PeriodsAhead int            `json:"periodsAhead" validate:"gte=0,lte=120"`
	Method       string         `json:"method,omitempty"`
	Confidence   float64        `json:"confidence,omitempty" validate:"omitempty,gt=0,lt=1"`
}

// TrendRequest represents the trend request body
type TrendRequest struct {
	SeriesID string        `json:"seriesId,omitempty" validate:"max=128"`
	Values   []interface{} `json:"values"`
	Alpha    float64       `json:"alpha,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// AnomalyRequest represents the anomaly detection request body
type AnomalyRequest struct {
	SeriesID  string        `json:"seriesId,omitempty" validate:"max=128"`
	Values    []interface{} `json:"values"`
	Threshold float64       `json:"threshold,omitempty" validate:"omitempty,gt=0"`
	Method    string        `json:"method,omitempty"`
}

// SeasonalRequest represents the seasonal analysis request body
type SeasonalRequest struct {
	SeriesID string        `json:"seriesId,omitempty" validate:"max=128"`
	Values   []interface{} `json:"values"`
	Period   int           `json:"period,omitempty" validate:"omitempty,gte=2,lte=366"`
}

// AccuracyPair is a published forecast and the value later observed
type AccuracyPair struct {
	Forecast *float64 `json:"forecast" validate:"required"`
	Actual   *float64 `json:"actual" validate:"required"`
}

// AccuracyRequest represents the forecast accuracy request body
type AccuracyRequest struct {
	SeriesID string         `json:"seriesId,omitempty" validate:"max=128"`
	Pairs    []AccuracyPair `json:"pairs" validate:"required,min=1,dive"`
}

// ClimateSample is one period of temperature (°C) and rainfall (mm)
type ClimateSample struct {
	Period      string   `json:"period" validate:"max=64"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Rainfall    *float64 `json:"rainfall" validate:"required"`
}

// ClimateRequest represents the climate impact request body
type ClimateRequest struct {
	Region    string          `json:"region,omitempty" validate:"max=128"`
	Samples   []ClimateSample `json:"samples" validate:"dive"`
	Timeframe int             `json:"timeframe,omitempty" validate:"omitempty,gte=1,lte=120"`
}

// PredictionQuery holds the GET /v1/predictions query parameters
type PredictionQuery struct {
	Type     string `query:"type"`
	SeriesID string `query:"seriesId" validate:"max=128"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
}
