package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/nara-ocean/marine-analytics/internal/config"
	"github.com/nara-ocean/marine-analytics/internal/models"
)

// RateLimit throttles requests with a single token bucket shared by all
// clients. Requests over the limit get 429 with a Retry-After hint.
func RateLimit(cfg config.RateLimitConfig) fiber.Handler {
	if !cfg.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	retryAfter := strconv.Itoa(max(1, int(1/cfg.RequestsPerSecond)))

	return func(c *fiber.Ctx) error {
		if limiter.Allow() {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, retryAfter)
		return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RATE_LIMITED",
				Message: "Too many requests",
				Path:    c.Path(),
			},
		})
	}
}
