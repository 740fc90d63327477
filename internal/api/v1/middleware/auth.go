package middleware

import (
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vmplane/vmplane/internal/services"
)

// SessionKey is the fiber locals key holding the authenticated session
const SessionKey = "session"

// RequireAuth returns a middleware that resolves the bearer token to a
// session and rejects the request when none exists. The session is stored in
// the request locals for handlers that need the operator identity.
func RequireAuth(auth *services.Auth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		session, ok := auth.Lookup(token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(SessionKey, session)
		return c.Next()
	}
}
