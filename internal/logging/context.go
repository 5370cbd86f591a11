package logging

import (
	"context"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	seriesIDKey
	analysisKey
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithSeriesID tags the context with the series being analysed
func WithSeriesID(ctx context.Context, seriesID string) context.Context {
	return context.WithValue(ctx, seriesIDKey, seriesID)
}

// WithAnalysis tags the context with the computation kind, e.g. forecast
func WithAnalysis(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, analysisKey, kind)
}

// extractContextFields returns the non-empty request fields in a fixed order
func extractContextFields(ctx context.Context) []interface{} {
	var fields []interface{}
	for _, f := range []struct {
		key  contextKey
		name string
	}{
		{requestIDKey, "request_id"},
		{analysisKey, "analysis"},
		{seriesIDKey, "series_id"},
	} {
		if v, ok := ctx.Value(f.key).(string); ok && v != "" {
			fields = append(fields, f.name, v)
		}
	}
	return fields
}
