package router

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara-ocean/marine-analytics/internal/archive"
	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/handlers"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/metrics"
	"github.com/nara-ocean/marine-analytics/internal/services"
)

var testKey = strings.Repeat("k", 40)

func newApp(t *testing.T, mutate func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{testKey}}
	if mutate != nil {
		mutate(cfg)
	}

	logger := logging.Nop()
	m := metrics.New(cfg.Metrics.Namespace)
	svc := services.NewAnalyticsService(logger, cfg.Analytics, archive.NewMemoryStore(10, 10), nil, m)
	h := handlers.New(logger, svc, services.NewImageService(logger, nil, m), nil)

	app := NewApp(logger, cfg.Server)
	Setup(app, logger, h, m, *cfg)
	return app
}

func TestSetup_HealthWithoutAuth(t *testing.T) {
	app := newApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(logging.RequestIDHeader))
}

func TestSetup_AuthRequired(t *testing.T) {
	app := newApp(t, nil)

	req := httptest.NewRequest("POST", "/v1/trend", bytes.NewBufferString(`{"values":[1,2,3]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/v1/trend", bytes.NewBufferString(`{"values":[1,2,3]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testKey)
	req.Header.Set(logging.RequestIDHeader, "req-42")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-42", resp.Header.Get(logging.RequestIDHeader))
	assert.NotEmpty(t, resp.Header.Get(handlers.PredictionIDHeader))
}

func TestSetup_ServiceErrorsRendered(t *testing.T) {
	app := newApp(t, nil)

	req := httptest.NewRequest("GET", "/v1/images/chart.png", nil)
	req.Header.Set("X-API-Key", testKey)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), services.CodeBlobstoreDisabled)
}

func TestSetup_MetricsEndpoint(t *testing.T) {
	app := newApp(t, nil)

	req := httptest.NewRequest("POST", "/v1/trend", bytes.NewBufferString(`{"values":[1,2,"x"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testKey)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `marine_analytics_http_requests_total{method="POST",route="/v1/trend",status="400"} 1`)
}

func TestSetup_MetricsDisabled(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.Metrics.Enabled = false })

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetup_UnknownRoute(t *testing.T) {
	app := newApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/v2/anything", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
