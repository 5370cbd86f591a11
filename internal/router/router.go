package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/handlers"
	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/metrics"
	"github.com/nara-ocean/marine-analytics/internal/middleware"
)

// NewApp creates the Fiber app with the shared error handler and limits
func NewApp(logger *logging.Logger, cfg config.ServerConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "marine-analytics",
		ErrorHandler:          middleware.ErrorHandler(logger),
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})
}

// Setup configures all routes and middlewares. m may be nil when metrics are
// disabled.
func Setup(app *fiber.App, logger *logging.Logger, h *handlers.Handler, m *metrics.Metrics, cfg config.Config) {
	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
		ExposeHeaders: "X-Request-ID," + handlers.PredictionIDHeader,
	}))
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.MiddlewareConfig{
		SkipPaths: []string{"/health", cfg.Metrics.Path},
	}))

	if m != nil && cfg.Metrics.Enabled {
		app.Use(m.FiberMiddleware(cfg.Metrics.Path))
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(m.Handler()))
	}

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API v1 routes (protected by API key, then rate limited)
	v1 := app.Group("/v1",
		middleware.APIKeyAuth(logger, cfg.Auth),
		middleware.RateLimit(cfg.RateLimit),
	)

	// Analytics
	v1.Post("/forecast", h.Forecast)
	v1.Post("/forecast/accuracy", h.Accuracy)
	v1.Post("/trend", h.Trend)
	v1.Post("/anomalies", h.Anomalies)
	v1.Post("/seasonal", h.Seasonal)
	v1.Post("/climate-impact", h.ClimateImpact)

	// Prediction archive
	v1.Get("/predictions", h.ListPredictions)
	v1.Get("/predictions/:id", h.GetPrediction)

	// Chart images
	v1.Put("/images/:key", h.PutImage)
	v1.Get("/images/:key", h.GetImage)
	v1.Delete("/images/:key", h.DeleteImage)

	// 404 handler
	app.Use(h.NotFound)
}
