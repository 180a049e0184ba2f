package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/magazine-service/internal/domain"
	apperrors "github.com/spec-kit/magazine-service/pkg/util"
)

// RequireRole ensures the authenticated principal has one of the allowed roles.
// Runs after AuthMiddleware.Handle.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present without role constraints.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
