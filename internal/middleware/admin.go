package middleware

import (
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/principal"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired gates a route on the admin role. Must run after Protect.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := principal.Get(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Message: "Authentication failed",
			})
		}
		if !p.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
