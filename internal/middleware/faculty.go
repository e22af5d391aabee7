package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/projeval/projeval-api/internal/utils"
)

// FacultyLocalKey is where the resolved faculty identifier is stored on
// the request context.
const FacultyLocalKey = "faculty_id"

// FacultyRequired resolves the acting faculty member from the
// X-Faculty-ID header. Authentication proper is handled upstream; the
// API only needs the identity to scope criteria, teams and evaluations.
func FacultyRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Get("X-Faculty-ID"))
		if raw == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "faculty identity is required")
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid faculty identity")
		}

		c.Locals(FacultyLocalKey, uint(id))
		return c.Next()
	}
}

// FacultyID returns the faculty identifier bound to the request, or zero
// when the request did not pass through FacultyRequired.
func FacultyID(c *fiber.Ctx) uint {
	if value := c.Locals(FacultyLocalKey); value != nil {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}
