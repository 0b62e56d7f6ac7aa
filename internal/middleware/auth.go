package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Protect resolves the bearer token through the credential verifier and
// attaches the principal to the request. Any resolution failure is a flat
// 401; the response never says which token interpretation was tried.
func Protect(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Message: "No token provided",
			})
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		user, err := authService.ResolveBearer(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Message: "Authentication failed",
			})
		}

		principal.Set(c, principal.Principal{
			UserID: user.ID,
			Role:   user.Role,
			User:   user,
		})
		return c.Next()
	}
}
