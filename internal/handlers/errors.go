package handlers

import (
	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/logger"
	"mcadesk/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fail writes err to the client. Errors outside the domain taxonomy are
// logged with the request id before being reported as a 500.
func fail(c *fiber.Ctx, err error) error {
	if _, ok := apperrors.As(err); !ok {
		logger.L.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return response.FromError(c, err)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.ErrValidation.WithDetail("id must be a positive integer")
	}
	return uint(id), nil
}
