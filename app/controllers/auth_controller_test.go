package controllers

import (
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository/repositorytest"
	"github.com/group2dev/landmark-api/internal/pkg/identity"
	"github.com/group2dev/landmark-api/internal/pkg/metrics"
	"github.com/group2dev/landmark-api/internal/pkg/oauth"
	"github.com/group2dev/landmark-api/internal/pkg/security"
)

const redirectBase = "http://localhost:5173/oauth2/redirect"

type authFixture struct {
	app   *fiber.App
	store *repositorytest.Store
	codec *security.TokenCodec
	ctrl  *AuthController
}

func newAuthFixture(t *testing.T, failureRedirect string, user goth.User, authErr error) authFixture {
	t.Helper()
	repos, store := repositorytest.NewRepositories()

	codec, err := security.NewTokenCodec(base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	require.NoError(t, err)
	responder, err := oauth.NewSuccessResponder(codec, redirectBase)
	require.NoError(t, err)

	ctrl := NewAuthController(identity.NewService(repos.User), responder, failureRedirect)
	ctrl.beginAuth = func(c *fiber.Ctx) error {
		return c.Redirect("https://provider.example/authorize", fiber.StatusTemporaryRedirect)
	}
	ctrl.completeAuth = func(*fiber.Ctx) (goth.User, error) {
		return user, authErr
	}

	app := fiber.New()
	app.Get("/api/auth/:provider", ctrl.HandleBegin)
	app.Get("/api/auth/:provider/callback", ctrl.HandleCallback)
	return authFixture{app: app, store: store, codec: codec, ctrl: ctrl}
}

func TestAuthCallback_FirstGitHubLogin(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{
		Provider: "github",
		UserID:   "999",
		NickName: "newuser",
		RawData:  map[string]any{"id": float64(999), "login": "newuser", "email": nil},
	}, nil)

	resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/github/callback?code=abc&state=xyz", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	token := location.Query().Get("token")
	require.NotEmpty(t, token)
	assert.Equal(t, redirectBase+"?token="+token, location.String())

	userID, err := fx.codec.SubjectOf(token)
	require.NoError(t, err)
	stored, ok := fx.store.User(userID)
	require.True(t, ok)
	assert.Equal(t, models.ProviderGitHub, stored.Provider)
	assert.Equal(t, "999", stored.ExternalID)
	assert.Equal(t, "newuser", stored.DisplayName)
	assert.Equal(t, models.ROLE_USER, stored.Role)
	assert.Nil(t, stored.Email)
	assert.Equal(t, 1, fx.store.UserCount())
}

func TestAuthCallback_RepeatedLoginKeepsOneUser(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{
		Provider:  "google",
		UserID:    "g-1",
		Name:      "Jane",
		Email:     "j@example.com",
		AvatarURL: "https://x/p.png",
		RawData:   map[string]any{"id": "g-1", "name": "Jane", "email": "j@example.com", "picture": "https://x/p.png"},
	}, nil)

	var subjects []uint
	for i := 0; i < 2; i++ {
		resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/google/callback", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		location, err := url.Parse(resp.Header.Get("Location"))
		require.NoError(t, err)
		id, err := fx.codec.SubjectOf(location.Query().Get("token"))
		require.NoError(t, err)
		subjects = append(subjects, id)
	}

	assert.Equal(t, subjects[0], subjects[1])
	assert.Equal(t, 1, fx.store.UserCount())
	stored, _ := fx.store.User(subjects[0])
	assert.Equal(t, "g-1", stored.ExternalID)
}

func TestAuthCallback_HandshakeFailure(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{}, errors.New("state mismatch"))

	resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/github/callback", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
	assert.Zero(t, fx.store.UserCount())
}

func TestAuthCallback_InvalidProfileRedirectsToFailurePage(t *testing.T) {
	fx := newAuthFixture(t, "http://localhost:5173/login", goth.User{
		Provider: "github",
		RawData:  map[string]any{"login": "noid"},
	}, nil)

	resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/github/callback", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173/login?error=invalid_profile", resp.Header.Get("Location"))
	assert.Zero(t, fx.store.UserCount())
}

func TestAuthCallback_StoreFailureIsServerError(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{
		Provider: "github",
		RawData:  map[string]any{"id": float64(5), "login": "down"},
	}, nil)
	fx.store.Err = errors.New("connection refused")

	resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/github/callback", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))
}

func TestAuthBegin(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{}, nil)

	resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/github", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)

	resp, err = fx.app.Test(httptest.NewRequest("GET", "/api/auth/facebook", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = fx.app.Test(httptest.NewRequest("GET", "/api/auth/facebook/callback", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// goth only knows the lower-case names
	for _, target := range []string{"/api/auth/GitHub", "/api/auth/GOOGLE", "/api/auth/GitHub/callback"} {
		resp, err = fx.app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)
	}
}

func TestAuthCallback_MixedCaseProviderIsRejected(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{
		Provider: "github",
		RawData:  map[string]any{"id": float64(31), "login": "caps"},
	}, nil)
	before := testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("GitHub", metrics.OutcomeSuccess))

	resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/GitHub/callback", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Zero(t, fx.store.UserCount())
	assert.Equal(t, before, testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("GitHub", metrics.OutcomeSuccess)))
}

func TestAuthCallback_LoginMetricsUseCanonicalProvider(t *testing.T) {
	fx := newAuthFixture(t, "", goth.User{
		Provider: "github",
		RawData:  map[string]any{"id": float64(32), "login": "counted"},
	}, nil)
	success := metrics.LoginAttempts.WithLabelValues("github", metrics.OutcomeSuccess)
	before := testutil.ToFloat64(success)

	for i := 0; i < 3; i++ {
		resp, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/github/callback", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
	}

	// later requests reuse the request buffer; the label must still read "github"
	_, err := fx.app.Test(httptest.NewRequest("GET", "/api/auth/google/callback?padding=xxxxxxxxxxxxxxxx", nil))
	require.NoError(t, err)
	assert.Equal(t, before+3, testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("github", metrics.OutcomeSuccess)))
}

func TestAttributesOf_BackfillsFromGothUser(t *testing.T) {
	attrs := attributesOf(goth.User{Provider: "google", UserID: "g-9", Name: "Kim", Email: "k@example.com"})
	assert.Equal(t, "g-9", attrs["sub"])
	assert.Equal(t, "Kim", attrs["name"])
	assert.Equal(t, "k@example.com", attrs["email"])

	attrs = attributesOf(goth.User{Provider: "github", UserID: "7", NickName: "hub", RawData: map[string]any{"id": float64(7)}})
	assert.Equal(t, float64(7), attrs["id"])
	assert.Equal(t, "hub", attrs["login"])
}
