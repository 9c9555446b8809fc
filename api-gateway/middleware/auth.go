package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tunedeck/tunedeck/pkg/auth"
)

// AuthMiddleware validates bearer tokens at the edge so unauthenticated
// traffic never reaches the upstream.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": message,
			})
		}

		c.Locals("user_id", claims.User.ID)
		c.Locals("email", claims.User.Email)

		// Forward identity to the upstream.
		c.Request().Header.Set("X-User-ID", fmt.Sprintf("%d", claims.User.ID))
		c.Request().Header.Set("X-User-Email", claims.User.Email)

		return c.Next()
	}
}
