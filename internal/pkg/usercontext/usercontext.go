package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/app/models"
)

// UserContext is the authenticated principal of a request. The zero value is
// the anonymous context.
type UserContext struct {
	UserID     uint         `json:"user_id"`
	Username   string       `json:"username"`
	Role       string       `json:"role"`
	IsLoggedIn bool         `json:"is_logged_in"`
	IsAdmin    bool         `json:"is_admin"`
	User       *models.User `json:"-"`
}

// FromUser builds the principal for a loaded user with its single granted role.
func FromUser(user *models.User) UserContext {
	return UserContext{
		UserID:     user.ID,
		Username:   user.DisplayName,
		Role:       user.GrantedRole(),
		IsLoggedIn: true,
		IsAdmin:    user.IsAdmin(),
		User:       user,
	}
}

// SetUserContext attaches the principal to the request.
func SetUserContext(c *fiber.Ctx, uc UserContext) {
	c.Locals(KeyUserContext, uc)
	c.Locals(KeyUserID, uc.UserID)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if uc, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return uc
	}
	return UserContext{}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// HasRole reports whether the current principal was granted role.
func HasRole(c *fiber.Ctx, role string) bool {
	uc := GetUserContext(c)
	return uc.IsLoggedIn && uc.Role == models.NormalizeRole(role)
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetUser returns the loaded user, or nil when anonymous
func GetUser(c *fiber.Ctx) *models.User {
	return GetUserContext(c).User
}
