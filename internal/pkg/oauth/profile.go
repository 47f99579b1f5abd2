package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/group2dev/landmark-api/app/models"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported identity provider")
	ErrProfileParse        = errors.New("could not parse provider profile")
)

// Profile is the provider-agnostic shape of a signed-in user.
type Profile struct {
	Provider    models.AuthProvider
	ExternalID  string
	DisplayName string
	Email       *string
	AvatarURL   *string
}

// ParseProvider maps a goth/route provider name such as "github" to its tag.
func ParseProvider(name string) (models.AuthProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "github":
		return models.ProviderGitHub, nil
	case "google":
		return models.ProviderGoogle, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
}

// GothName returns the goth provider name for a tag.
func GothName(provider models.AuthProvider) string {
	return strings.ToLower(string(provider))
}

// Normalize maps a provider's raw user-info payload onto a Profile.
// This switch is the only provider-specific knowledge in the login flow.
func Normalize(provider models.AuthProvider, raw map[string]any) (Profile, error) {
	switch provider {
	case models.ProviderGitHub:
		return normalizeGitHub(raw)
	case models.ProviderGoogle:
		return normalizeGoogle(raw)
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}

// GitHub: {"id": 12345, "login": "octocat", "avatar_url": "...", "email": null}
func normalizeGitHub(raw map[string]any) (Profile, error) {
	id, err := numericID(raw, "id")
	if err != nil {
		return Profile{}, err
	}
	login, err := requiredString(raw, "login")
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Provider:    models.ProviderGitHub,
		ExternalID:  id,
		DisplayName: login,
		Email:       optionalString(raw, "email"),
		AvatarURL:   optionalString(raw, "avatar_url"),
	}, nil
}

// Google OIDC userinfo: {"sub": "...", "name": "...", "email": "...", "picture": "..."}
func normalizeGoogle(raw map[string]any) (Profile, error) {
	sub, err := requiredString(raw, "sub")
	if err != nil {
		return Profile{}, err
	}
	name, err := requiredString(raw, "name")
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Provider:    models.ProviderGoogle,
		ExternalID:  sub,
		DisplayName: name,
		Email:       optionalString(raw, "email"),
		AvatarURL:   optionalString(raw, "picture"),
	}, nil
}

func requiredString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%w: missing %q", ErrProfileParse, key)
	}
	return v, nil
}

func optionalString(raw map[string]any, key string) *string {
	v, ok := raw[key].(string)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// numericID stringifies an integral id; JSON decoding yields float64 or json.Number.
func numericID(raw map[string]any, key string) (string, error) {
	switch v := raw[key].(type) {
	case float64:
		if v != math.Trunc(v) || v < 0 {
			break
		}
		return strconv.FormatInt(int64(v), 10), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return strconv.FormatInt(n, 10), nil
		}
	case string:
		if _, err := strconv.ParseInt(v, 10, 64); err == nil {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: missing or non-numeric %q", ErrProfileParse, key)
}
