package handlers

import (
	"errors"

	"nlsql/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses. Anything unmapped is
// a 500 and gets logged; the mapped cases are expected outcomes and are not.
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, models.ErrJobConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": models.ErrJobConflict.Error(),
		})
	case errors.Is(err, models.ErrConfigDisabled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": models.ErrConfigDisabled.Error(),
		})
	case errors.Is(err, models.ErrCacheDisabled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": models.ErrCacheDisabled.Error(),
		})
	case errors.Is(err, models.ErrEmptyQuestion):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": models.ErrEmptyQuestion.Error(),
		})
	}

	logger.Error(message, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": message,
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}
