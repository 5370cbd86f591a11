package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nara-ocean/marine-analytics/internal/analytics/anomaly"
	"github.com/nara-ocean/marine-analytics/internal/analytics/forecast"
	"github.com/nara-ocean/marine-analytics/internal/models"
	"github.com/nara-ocean/marine-analytics/internal/services"
)

// Health reports the version, the configured side-channel backends and the
// registered analytics methods
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Backends:  h.backends,
		Methods: map[string][]string{
			"forecast": forecast.ListForecasters(),
			"anomaly":  anomaly.ListDetectors(),
		},
	})
}

// NotFound is the catch-all for unknown routes
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return services.NewServiceErrorWithDetails(services.CodeNotFound, "Route not found", map[string]interface{}{
		"method": c.Method(),
	})
}
