package oauth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/group2dev/landmark-api/app/models"
)

func strPtr(s string) *string { return &s }

func TestNormalize_GitHub(t *testing.T) {
	raw := map[string]any{
		"id":         12345,
		"login":      "octocat",
		"avatar_url": "https://x/a.png",
		"email":      nil,
	}

	p, err := Normalize(models.ProviderGitHub, raw)
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Provider:    models.ProviderGitHub,
		ExternalID:  "12345",
		DisplayName: "octocat",
		AvatarURL:   strPtr("https://x/a.png"),
		Email:       nil,
	}, p)
}

func TestNormalize_GitHubDecodedJSON(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"id":98765432,"login":"hubber","email":"h@example.com","avatar_url":null}`), &raw))

	p, err := Normalize(models.ProviderGitHub, raw)
	require.NoError(t, err)
	assert.Equal(t, "98765432", p.ExternalID)
	assert.Equal(t, "hubber", p.DisplayName)
	assert.Equal(t, strPtr("h@example.com"), p.Email)
	assert.Nil(t, p.AvatarURL)
}

func TestNormalize_Google(t *testing.T) {
	raw := map[string]any{
		"sub":            "g-1",
		"name":           "Jane",
		"email":          "j@example.com",
		"picture":        "https://x/p.png",
		"email_verified": true,
	}

	p, err := Normalize(models.ProviderGoogle, raw)
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Provider:    models.ProviderGoogle,
		ExternalID:  "g-1",
		DisplayName: "Jane",
		Email:       strPtr("j@example.com"),
		AvatarURL:   strPtr("https://x/p.png"),
	}, p)
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		provider models.AuthProvider
		raw      map[string]any
	}{
		{"github without id", models.ProviderGitHub, map[string]any{"login": "octocat"}},
		{"github fractional id", models.ProviderGitHub, map[string]any{"id": 1.5, "login": "octocat"}},
		{"github text id", models.ProviderGitHub, map[string]any{"id": "abc", "login": "octocat"}},
		{"github without login", models.ProviderGitHub, map[string]any{"id": 1}},
		{"google without sub", models.ProviderGoogle, map[string]any{"name": "Jane"}},
		{"google numeric sub", models.ProviderGoogle, map[string]any{"sub": 1, "name": "Jane"}},
		{"google without name", models.ProviderGoogle, map[string]any{"sub": "g-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.provider, tt.raw)
			assert.ErrorIs(t, err, ErrProfileParse)
		})
	}
}

func TestNormalize_UnsupportedProvider(t *testing.T) {
	_, err := Normalize(models.AuthProvider("FACEBOOK"), map[string]any{"id": 1})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("github")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGitHub, p)

	p, err = ParseProvider("Google")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderGoogle, p)

	_, err = ParseProvider("discord")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	assert.Equal(t, "github", GothName(models.ProviderGitHub))
}
