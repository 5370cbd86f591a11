package models

import "github.com/nara-ocean/marine-analytics/internal/archive"

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string              `json:"status"`
	Timestamp string              `json:"timestamp"`
	Version   string              `json:"version"`
	Backends  map[string]string   `json:"backends,omitempty"`
	Methods   map[string][]string `json:"methods,omitempty"`
}

// PredictionListResponse represents list predictions response
type PredictionListResponse struct {
	Predictions []*archive.Record `json:"predictions"`
	Count       int               `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
