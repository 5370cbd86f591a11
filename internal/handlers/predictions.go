package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nara-ocean/marine-analytics/internal/models"
	"github.com/nara-ocean/marine-analytics/internal/services"
)

// ListPredictions handles GET /v1/predictions?type=&seriesId=&limit=
func (h *Handler) ListPredictions(c *fiber.Ctx) error {
	var q models.PredictionQuery
	if err := c.QueryParser(&q); err != nil {
		return services.NewServiceErrorWithDetails(services.CodeInvalidInput, "Invalid query parameters",
			map[string]interface{}{"error": err.Error()})
	}
	if err := h.validateStruct(&q); err != nil {
		return err
	}

	records, err := h.analytics.ListPredictions(c.UserContext(), services.ListRequest{
		Type:     q.Type,
		SeriesID: q.SeriesID,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(models.PredictionListResponse{Predictions: records, Count: len(records)})
}

// GetPrediction handles GET /v1/predictions/:id
func (h *Handler) GetPrediction(c *fiber.Ctx) error {
	rec, err := h.analytics.GetPrediction(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(rec)
}
