package handlers

import (
	"nlsql/internal/dto"
	"nlsql/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TokenHandler struct {
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewTokenHandler(tokens *auth.TokenManager, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		tokens: tokens,
		logger: logger,
	}
}

// Issue godoc
// @Summary Issue an API token
// @Description Returns a short-lived token for the mutating endpoints. Disabled deployments answer 404.
// @Tags system
// @Produce json
// @Success 200 {object} dto.TokenResponse
// @Failure 404 {object} map[string]string
// @Router /api/token [get]
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	if !h.tokens.Enabled() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Token auth is not configured",
		})
	}

	token, err := h.tokens.Generate(uuid.New().String())
	if err != nil {
		h.logger.Error("Failed to issue token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(dto.TokenResponse{
		Token:     token,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
	})
}
