package oauth

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// TokenIssuer mints an identity token for a user id.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

// SuccessResponder hands a freshly minted token to the single-page app by
// redirecting to the configured URI with a token query parameter.
type SuccessResponder struct {
	issuer      TokenIssuer
	redirectURI *url.URL
}

// NewSuccessResponder fails when redirectURI is not an absolute URL.
func NewSuccessResponder(issuer TokenIssuer, redirectURI string) (*SuccessResponder, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth2 redirect uri: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("oauth2 redirect uri must be absolute, got %q", redirectURI)
	}
	return &SuccessResponder{issuer: issuer, redirectURI: u}, nil
}

// Target builds the redirect location for a principal.
func (r *SuccessResponder) Target(p *Principal) (string, error) {
	userID, err := p.UserID()
	if err != nil {
		return "", err
	}
	token, err := r.issuer.Issue(userID)
	if err != nil {
		return "", err
	}

	target := *r.redirectURI
	q := target.Query()
	q.Set("token", token)
	target.RawQuery = q.Encode()
	return target.String(), nil
}

// Respond redirects with 302. The token never appears in a cookie, header or body.
func (r *SuccessResponder) Respond(c *fiber.Ctx, p *Principal) error {
	target, err := r.Target(p)
	if err != nil {
		return err
	}
	return c.Redirect(target, fiber.StatusFound)
}
