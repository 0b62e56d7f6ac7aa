package principal

import (
	"github.com/ahmetcoskunkizilkaya/gallery-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsKey = "principal"

// Principal is the resolved identity attached to the request after the auth
// middleware runs. Handlers read it from here and never re-authenticate.
type Principal struct {
	UserID uuid.UUID
	Role   string
	User   *models.User
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Set stores the principal in the Fiber context locals.
func Set(c *fiber.Ctx, p Principal) {
	c.Locals(localsKey, p)
}

// Get extracts the principal; ok is false when no auth middleware ran.
func Get(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(localsKey).(Principal)
	return p, ok
}
