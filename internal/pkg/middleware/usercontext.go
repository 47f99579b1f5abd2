package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/internal/pkg/metrics"
	"github.com/group2dev/landmark-api/internal/pkg/usercontext"
)

const bearerPrefix = "Bearer "

// TokenValidator verifies identity tokens and yields their subject.
type TokenValidator interface {
	Validate(token string) bool
	SubjectOf(token string) (uint, error)
}

// UserLoader reads a user by id.
type UserLoader interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// UserContextMiddleware resolves the bearer token into the request's principal.
// It never rejects a request: a missing, invalid or expired token and a token
// for a deleted user all leave the request anonymous. Route guards decide.
func UserContextMiddleware(tokens TokenValidator, users UserLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			metrics.ObserveTokenValidation(metrics.OutcomeAbsent)
			return c.Next()
		}
		if !tokens.Validate(token) {
			metrics.ObserveTokenValidation(metrics.OutcomeInvalid)
			return c.Next()
		}
		userID, err := tokens.SubjectOf(token)
		if err != nil {
			log.Warnf("[Auth] valid token with unusable subject: %v", err)
			metrics.ObserveTokenValidation(metrics.OutcomeInvalid)
			return c.Next()
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Errorf("[Auth] loading user %d failed: %v", userID, err)
			}
			metrics.ObserveTokenValidation(metrics.OutcomeUnknownUser)
			return c.Next()
		}

		metrics.ObserveTokenValidation(metrics.OutcomeValid)
		usercontext.SetUserContext(c, usercontext.FromUser(user))
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
