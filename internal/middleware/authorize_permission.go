package middleware

import (
	"portfolio-backend/internal/pkg/constants"
	"portfolio-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission checks the actor's role against constants.PermissionRoles.
// Unconfigured permission -> 500; role not allowed -> 403. Host matching is
// left to the services.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetActor(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if roles, ok := constants.PermissionRoles[permission]; !ok || len(roles) == 0 {
			return response.Error(c, "Permission configuration error", fiber.StatusInternalServerError, nil)
		}
		if !constants.AllowedRole(permission, actor.Role) {
			return response.Reasoned(c, "User is Forbidden from performing this action", fiber.StatusForbidden, "FORBIDDEN", nil)
		}
		return c.Next()
	}
}
