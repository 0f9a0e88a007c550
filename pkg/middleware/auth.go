package middleware

import (
	"nlsql/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireToken guards mutating endpoints with a short-lived API token.
// When no token secret is configured the middleware is a no-op; the caller
// is expected to have logged a warning about running unprotected.
func RequireToken(tokens *auth.TokenManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !tokens.Enabled() {
			return c.Next()
		}

		token := c.Get("Authorization")
		if token == "" {
			token = c.Get("X-API-Token")
		}
		if token == "" {
			logger.Warn("Missing API token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "API token required",
			})
		}

		// Remove "Bearer " prefix if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			logger.Warn("Invalid API token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("sessionID", claims.SessionID)

		return c.Next()
	}
}
