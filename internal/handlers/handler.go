package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/services"
	"github.com/nara-ocean/marine-analytics/internal/utils"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// PredictionIDHeader carries the archive id of a computed result
const PredictionIDHeader = "X-Prediction-ID"

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	analytics *services.AnalyticsService
	images    *services.ImageService
	validate  *validator.Validate
	backends  map[string]string
}

// New creates a new handler instance. backends describes the configured
// archive, event and blob backends for the health endpoint.
func New(logger *logging.Logger, analytics *services.AnalyticsService, images *services.ImageService, backends map[string]string) *Handler {
	return &Handler{
		logger:    logger,
		analytics: analytics,
		images:    images,
		validate:  validator.New(),
		backends:  backends,
	}
}

// parseBody decodes and validates a JSON request body
func (h *Handler) parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return services.NewServiceErrorWithDetails(services.CodeInvalidInput, "Failed to parse JSON body",
			map[string]interface{}{"error": err.Error()})
	}
	return h.validateStruct(dst)
}

func (h *Handler) validateStruct(s interface{}) error {
	err := h.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.NewServiceError(services.CodeInvalidInput, err.Error())
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fmt.Sprintf("%s failed %s %s", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return services.NewServiceErrorWithDetails(services.CodeInvalidInput, "Request validation failed",
		map[string]interface{}{
			"field":      verrs[0].Field(),
			"violations": violations,
		})
}

// numbers converts a loosely decoded JSON array, naming the first
// non-numeric element
func numbers(field string, values []interface{}) ([]float64, error) {
	out, bad := utils.ToFloat64Slice(values)
	if bad >= 0 {
		return nil, services.NewServiceErrorWithDetails(services.CodeInvalidInput,
			fmt.Sprintf("%s[%d] is not a finite number", field, bad),
			map[string]interface{}{"field": field, "index": bad})
	}
	return out, nil
}

// respond writes a computed result and its archive id
func respond(c *fiber.Ctx, predictionID string, result interface{}) error {
	if predictionID != "" {
		c.Set(PredictionIDHeader, predictionID)
	}
	return c.JSON(result)
}
