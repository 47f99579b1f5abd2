package controllers

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/markbates/goth"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/group2dev/landmark-api/internal/pkg/metrics"
	"github.com/group2dev/landmark-api/internal/pkg/oauth"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

// UserLoader turns a provider's user-info payload into a principal.
type UserLoader interface {
	LoadUser(ctx context.Context, providerName string, raw map[string]any) (*oauth.Principal, error)
}

// AuthController drives the OAuth2 login. The handshake itself belongs to
// goth; this controller only validates the provider and hands the result to
// reconciliation and the success responder.
type AuthController struct {
	users           UserLoader
	responder       *oauth.SuccessResponder
	failureRedirect string

	beginAuth    fiber.Handler
	completeAuth func(c *fiber.Ctx) (goth.User, error)
}

// NewAuthController uses goth_fiber for the handshake. failureRedirect may be empty.
func NewAuthController(users UserLoader, responder *oauth.SuccessResponder, failureRedirect string) *AuthController {
	return &AuthController{
		users:           users,
		responder:       responder,
		failureRedirect: failureRedirect,
		beginAuth:       gothfiber.BeginAuthHandler,
		completeAuth: func(c *fiber.Ctx) (goth.User, error) {
			return gothfiber.CompleteUserAuth(c)
		},
	}
}

// HandleBegin redirects to the provider's authorization endpoint.
func (ac *AuthController) HandleBegin(c *fiber.Ctx) error {
	if _, ok := providerOf(c); !ok {
		return respondError(c, fiber.StatusNotFound, viewmodel.CodeInvalidRequest, "unsupported login provider")
	}
	return ac.beginAuth(c)
}

// HandleCallback completes the handshake and redirects with a token.
func (ac *AuthController) HandleCallback(c *fiber.Ctx) error {
	started := time.Now()
	providerName, ok := providerOf(c)
	if !ok {
		return respondError(c, fiber.StatusNotFound, viewmodel.CodeInvalidRequest, "unsupported login provider")
	}

	gu, err := ac.completeAuth(c)
	if err != nil {
		log.Warnf("[OAuth] %s handshake failed: %v", providerName, err)
		metrics.ObserveLogin(providerName, metrics.OutcomeFailure, started)
		return ac.fail(c, "oauth_failed")
	}

	principal, err := ac.users.LoadUser(c.UserContext(), providerName, attributesOf(gu))
	switch {
	case errors.Is(err, oauth.ErrUnsupportedProvider), errors.Is(err, oauth.ErrProfileParse):
		log.Warnf("[OAuth] %s profile rejected: %v", providerName, err)
		metrics.ObserveLogin(providerName, metrics.OutcomeFailure, started)
		return ac.fail(c, "invalid_profile")
	case err != nil:
		metrics.ObserveLogin(providerName, metrics.OutcomeError, started)
		return handleError(c, err)
	}

	if err := ac.responder.Respond(c, principal); err != nil {
		metrics.ObserveLogin(providerName, metrics.OutcomeError, started)
		return handleError(c, err)
	}
	metrics.ObserveLogin(providerName, metrics.OutcomeSuccess, started)
	return nil
}

// providerOf returns the goth name of the route's provider. Only the exact
// lower-case names goth registered are accepted. The returned string is owned
// by the caller, unlike c.Params which aliases the request buffer.
func providerOf(c *fiber.Ctx) (string, bool) {
	raw := c.Params("provider")
	provider, err := oauth.ParseProvider(raw)
	if err != nil {
		return "", false
	}
	name := oauth.GothName(provider)
	return name, name == raw
}

func (ac *AuthController) fail(c *fiber.Ctx, code string) error {
	if ac.failureRedirect == "" {
		return respondError(c, fiber.StatusUnauthorized, viewmodel.CodeUnauthorized, "login failed")
	}
	target, err := url.Parse(ac.failureRedirect)
	if err != nil {
		return respondError(c, fiber.StatusUnauthorized, viewmodel.CodeUnauthorized, "login failed")
	}
	q := target.Query()
	q.Set("error", code)
	target.RawQuery = q.Encode()
	return c.Redirect(target.String(), fiber.StatusFound)
}

// attributesOf returns the provider's raw user-info payload, backfilling the
// identifying fields from goth's normalized view when the payload lacks them.
func attributesOf(gu goth.User) map[string]any {
	attrs := make(map[string]any, len(gu.RawData)+2)
	for k, v := range gu.RawData {
		attrs[k] = v
	}
	switch gu.Provider {
	case "github":
		setIfMissing(attrs, "id", gu.UserID)
		setIfMissing(attrs, "login", gu.NickName)
	case "google":
		setIfMissing(attrs, "sub", gu.UserID)
		setIfMissing(attrs, "name", gu.Name)
		setIfMissing(attrs, "picture", gu.AvatarURL)
	}
	setIfMissing(attrs, "email", gu.Email)
	return attrs
}

func setIfMissing(attrs map[string]any, key, value string) {
	if _, ok := attrs[key]; ok || value == "" {
		return
	}
	attrs[key] = value
}
