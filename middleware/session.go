// middleware/session.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/google/uuid"
)

// SessionContextMiddleware extracts the client-minted session UUID from
// X-Session-ID. Round ownership checks hang off this value, so a missing
// or malformed header is rejected before any handler runs.
func SessionContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := strings.TrimSpace(c.Get("X-Session-ID"))
		if sessionID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing X-Session-ID header",
			})
		}
		if _, err := uuid.Parse(sessionID); err != nil {
			log.Printf("🚫 [SESSION_CTX] malformed session id on %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "X-Session-ID must be a UUID",
			})
		}

		c.Locals("session_id", sessionID)
		return c.Next()
	}
}

// AdminOnlyMiddleware gates admin tooling on the gateway-forwarded roles
// header, same contract as the rest of the platform.
func AdminOnlyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, role := range strings.Split(c.Get("X-User-Roles"), ",") {
			if strings.TrimSpace(role) == "admin" {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "admin role required",
		})
	}
}
