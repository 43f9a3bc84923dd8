package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tutorhub/tutor-marketplace/internal/domain"
	apperrors "github.com/tutorhub/tutor-marketplace/pkg/util/errorutil"
)

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
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

// RequireStudent ensures a student is authenticated.
func RequireStudent() fiber.Handler {
	return RequireRole(domain.RoleStudent)
}

// RequireTutor ensures a tutor is authenticated.
func RequireTutor() fiber.Handler {
	return RequireRole(domain.RoleTutor)
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return RequireRole()
}
