package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nara-ocean/marine-analytics/internal/logging"
	"github.com/nara-ocean/marine-analytics/internal/models"
	"github.com/nara-ocean/marine-analytics/internal/services"
)

// StatusForCode maps a service error code to its HTTP status
func StatusForCode(code string) int {
	switch code {
	case services.CodeInvalidInput, services.CodeInvalidMethod:
		return fiber.StatusBadRequest
	case services.CodeNotFound:
		return fiber.StatusNotFound
	case services.CodePayloadTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case services.CodeArchiveUnavailable, services.CodeBlobstoreDisabled:
		return fiber.StatusServiceUnavailable
	case services.CodeStorageFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders service and fiber errors as models.ErrorResponse
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "Internal Server Error",
			Path:    c.Path(),
		}

		var se *services.ServiceError
		var fe *fiber.Error
		switch {
		case errors.As(err, &se):
			status = StatusForCode(se.Code)
			detail.Code = se.Code
			detail.Message = se.Message
			detail.Details = se.Details
		case errors.As(err, &fe):
			status = fe.Code
			detail.Code = codeForStatus(fe.Code)
			detail.Message = fe.Message
		}

		log := logger.WithContext(c.UserContext())
		if status >= fiber.StatusInternalServerError {
			log.Error("Request error",
				"path", c.Path(),
				"method", c.Method(),
				"status", status,
				"error", err,
			)
		} else {
			log.Debug("Request rejected",
				"path", c.Path(),
				"method", c.Method(),
				"status", status,
				"code", detail.Code,
			)
		}

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	case fiber.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "ERROR"
	}
}
