package middleware

import (
	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const actorLocal = "actor"

// SetActor attaches the resolved caller to the request.
func SetActor(c *fiber.Ctx, a scope.Actor) {
	c.Locals(actorLocal, a)
}

// GetActor returns the caller resolved from the session, if any.
func GetActor(c *fiber.Ctx) (scope.Actor, bool) {
	a, ok := c.Locals(actorLocal).(scope.Actor)
	return a, ok
}

// RequireAuth rejects requests without a session actor with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetActor(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
