package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/miniticket/pkg/util"
)

// RequireAdmin ensures the caller carries the admin role claim. It runs
// after Handle, so a missing principal means the route was wired wrong
// rather than the caller being anonymous.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
