package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/internal/pkg/oauth"
)

// memoryUsers enforces the (provider, external id) uniqueness the schema provides.
type memoryUsers struct {
	mu     sync.Mutex
	rows   map[uint]models.User
	nextID uint
	saves  int

	// beforeInsert runs once, before the first insert, to simulate a racing login.
	beforeInsert func(m *memoryUsers)
	saveErr      error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{rows: map[uint]models.User{}, nextID: 1}
}

func (m *memoryUsers) FindByProviderAndExternalID(_ context.Context, provider models.AuthProvider, externalID string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Provider == provider && u.ExternalID == externalID {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memoryUsers) Save(_ context.Context, user *models.User) error {
	if hook := m.beforeInsert; hook != nil && user.ID == 0 {
		m.beforeInsert = nil
		hook(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if user.ID == 0 {
		for _, u := range m.rows {
			if u.Provider == user.Provider && u.ExternalID == user.ExternalID {
				return gorm.ErrDuplicatedKey
			}
		}
		user.ID = m.nextID
		m.nextID++
	}
	m.rows[user.ID] = *user
	return nil
}

func (m *memoryUsers) insert(u models.User) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	m.rows[u.ID] = u
	return u.ID
}

func strPtr(s string) *string { return &s }

func githubProfile(externalID, login string) oauth.Profile {
	return oauth.Profile{
		Provider:    models.ProviderGitHub,
		ExternalID:  externalID,
		DisplayName: login,
		AvatarURL:   strPtr("https://x/a.png"),
	}
}

func TestReconcile_CreatesNewUser(t *testing.T) {
	users := newMemoryUsers()
	svc := NewService(users)

	user, role, err := svc.Reconcile(context.Background(), githubProfile("999", "newuser"))
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, models.ProviderGitHub, user.Provider)
	assert.Equal(t, "999", user.ExternalID)
	assert.Equal(t, "newuser", user.DisplayName)
	assert.Equal(t, models.ROLE_USER, user.Role)
	assert.Equal(t, models.ROLE_USER, role)
	assert.Len(t, users.rows, 1)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	users := newMemoryUsers()
	svc := NewService(users)
	profile := githubProfile("12345", "octocat")

	first, _, err := svc.Reconcile(context.Background(), profile)
	require.NoError(t, err)
	second, _, err := svc.Reconcile(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users.rows, 1)
}

func TestReconcile_UpdatesProfileOfReturningUser(t *testing.T) {
	users := newMemoryUsers()
	id := users.insert(models.User{
		Provider:    models.ProviderGoogle,
		ExternalID:  "g-1",
		DisplayName: "Old Name",
		Email:       strPtr("old@example.com"),
		Role:        models.ROLE_ADMIN,
	})
	svc := NewService(users)

	user, role, err := svc.Reconcile(context.Background(), oauth.Profile{
		Provider:    models.ProviderGoogle,
		ExternalID:  "g-1",
		DisplayName: "Jane",
		Email:       strPtr("j@example.com"),
		AvatarURL:   strPtr("https://x/p.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, id, user.ID)
	assert.Equal(t, models.ROLE_ADMIN, role)
	stored := users.rows[id]
	assert.Equal(t, "Jane", stored.DisplayName)
	assert.Equal(t, "j@example.com", *stored.Email)
	assert.Equal(t, "https://x/p.png", *stored.AvatarURL)
	assert.Equal(t, models.ROLE_ADMIN, stored.Role)
}

func TestReconcile_NormalizesLegacyRole(t *testing.T) {
	users := newMemoryUsers()
	users.insert(models.User{Provider: models.ProviderGitHub, ExternalID: "1", DisplayName: "legacy", Role: "USER"})
	svc := NewService(users)

	_, role, err := svc.Reconcile(context.Background(), githubProfile("1", "legacy"))
	require.NoError(t, err)
	assert.Equal(t, "ROLE_USER", role)
}

func TestReconcile_RetriesAsUpdateAfterConcurrentInsert(t *testing.T) {
	users := newMemoryUsers()
	var racerID uint
	users.beforeInsert = func(m *memoryUsers) {
		racerID = m.insert(models.User{
			Provider:    models.ProviderGitHub,
			ExternalID:  "42",
			DisplayName: "racer",
			Role:        models.ROLE_USER,
		})
	}
	svc := NewService(users)

	user, role, err := svc.Reconcile(context.Background(), githubProfile("42", "winner"))
	require.NoError(t, err)

	assert.Equal(t, racerID, user.ID)
	assert.Equal(t, models.ROLE_USER, role)
	assert.Len(t, users.rows, 1)
	assert.Equal(t, "winner", users.rows[racerID].DisplayName)
}

func TestReconcile_ConcurrentLoginsCreateOneUser(t *testing.T) {
	users := newMemoryUsers()
	svc := NewService(users)
	profile := githubProfile("7", "parallel")

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, _, err := svc.Reconcile(context.Background(), profile)
			if assert.NoError(t, err) {
				ids[i] = user.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, users.rows, 1)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestReconcile_PropagatesStoreFailure(t *testing.T) {
	users := newMemoryUsers()
	users.saveErr = errors.New("connection refused")
	svc := NewService(users)

	_, _, err := svc.Reconcile(context.Background(), githubProfile("5", "down"))
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, users.rows)
}

func TestReconcile_DuplicateOnOtherColumnIsNotRetried(t *testing.T) {
	users := newMemoryUsers()
	users.saveErr = gorm.ErrDuplicatedKey
	svc := NewService(users)

	_, _, err := svc.Reconcile(context.Background(), githubProfile("6", "email-clash"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestLoadUser_AttachesUserID(t *testing.T) {
	users := newMemoryUsers()
	svc := NewService(users)
	raw := map[string]any{"id": float64(999), "login": "newuser", "email": nil}

	principal, err := svc.LoadUser(context.Background(), "github", raw)
	require.NoError(t, err)

	id, err := principal.UserID()
	require.NoError(t, err)
	stored, err := users.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "999", stored.ExternalID)
	assert.Equal(t, "newuser", principal.Attributes["login"])
	assert.Equal(t, models.ROLE_USER, principal.Role)
	// provider payload is copied, not mutated
	assert.Equal(t, float64(999), raw["id"])
}

func TestLoadUser_RejectsBadInputWithoutWriting(t *testing.T) {
	users := newMemoryUsers()
	svc := NewService(users)

	_, err := svc.LoadUser(context.Background(), "facebook", map[string]any{"id": 1})
	assert.ErrorIs(t, err, oauth.ErrUnsupportedProvider)

	_, err = svc.LoadUser(context.Background(), "github", map[string]any{"login": "noid"})
	assert.ErrorIs(t, err, oauth.ErrProfileParse)

	assert.Zero(t, users.saves)
}
