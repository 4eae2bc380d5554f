package middleware

import (
	"strings"

	"photoshare/internal/apperrors"
	"photoshare/internal/models"
	"photoshare/internal/services"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "currentUser"

// AuthRequired is a Fiber middleware that resolves the acting user from the
// bearer token (cache first, directory on miss) and stores it in the request
// context. It proves identity only; role and ownership rules are enforced by
// the services.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.ResolveUser(c.UserContext(), parts[1])
		if err != nil {
			return c.Status(apperrors.StatusCode(err)).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the identity resolved by AuthRequired, or nil on
// routes that skipped it.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
