package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/internal/pkg/usercontext"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

// RequireAuth rejects anonymous requests with a 401 envelope.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).
			JSON(viewmodel.Fail(viewmodel.CodeUnauthorized, "authentication required"))
	}
	return c.Next()
}

// RequireRole rejects anonymous requests with 401 and principals lacking role with 403.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !usercontext.IsLoggedIn(c) {
			return c.Status(fiber.StatusUnauthorized).
				JSON(viewmodel.Fail(viewmodel.CodeUnauthorized, "authentication required"))
		}
		if !usercontext.HasRole(c, role) {
			return c.Status(fiber.StatusForbidden).
				JSON(viewmodel.Fail(viewmodel.CodeForbidden, "insufficient role"))
		}
		return c.Next()
	}
}
