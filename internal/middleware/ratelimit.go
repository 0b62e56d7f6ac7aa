package middleware

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const rateWindow = 15 * time.Minute

// GeneralLimiter is the broad API budget: 100 requests / 15 min per IP.
// Mounted only in production.
func GeneralLimiter() fiber.Handler {
	return newLimiter(100, "Too many requests, please try again later")
}

// UploadLimiter protects the upload path: 20 requests / 15 min per IP.
func UploadLimiter() fiber.Handler {
	return newLimiter(20, "Upload limit exceeded, please try later")
}

// AuthLimiter protects the login paths: 30 requests / 15 min per IP.
func AuthLimiter() fiber.Handler {
	return newLimiter(30, "Too many login attempts, try again later")
}

func newLimiter(max int, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        rateWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Message: message,
			})
		},
	})
}
