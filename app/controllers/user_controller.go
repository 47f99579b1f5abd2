package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/internal/pkg/usercontext"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

// HandleMe returns the signed-in user's profile. Mounted behind RequireAuth.
func HandleMe(c *fiber.Ctx) error {
	user := usercontext.GetUser(c)
	if user == nil {
		return respondError(c, fiber.StatusUnauthorized, viewmodel.CodeUnauthorized, "authentication required")
	}
	return respondOK(c, viewmodel.FromUser(user))
}
