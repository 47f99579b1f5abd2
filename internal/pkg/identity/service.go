package identity

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository"
	"github.com/group2dev/landmark-api/internal/pkg/oauth"
)

// Service reconciles provider profiles with local users.
type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Reconcile finds or creates the user for the profile's (provider, external id)
// and refreshes its profile fields. A duplicate-key failure on insert means a
// concurrent login created the row first; the call then retries as an update.
func (s *Service) Reconcile(ctx context.Context, profile oauth.Profile) (*models.User, string, error) {
	user, err := s.users.FindByProviderAndExternalID(ctx, profile.Provider, profile.ExternalID)
	switch {
	case err == nil:
		return s.refresh(ctx, user, profile)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	user = &models.User{
		Provider:    profile.Provider,
		ExternalID:  profile.ExternalID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		AvatarURL:   profile.AvatarURL,
		Role:        models.ROLE_USER,
	}
	err = s.users.Save(ctx, user)
	if err == nil {
		log.Infof("[Identity] created user %d for %s/%s", user.ID, profile.Provider, profile.ExternalID)
		return user, user.GrantedRole(), nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	existing, findErr := s.users.FindByProviderAndExternalID(ctx, profile.Provider, profile.ExternalID)
	if findErr != nil {
		// the collision was on another unique column, e.g. an email held by a different identity
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	log.Debugf("[Identity] concurrent insert for %s/%s, updating user %d", profile.Provider, profile.ExternalID, existing.ID)
	return s.refresh(ctx, existing, profile)
}

func (s *Service) refresh(ctx context.Context, user *models.User, profile oauth.Profile) (*models.User, string, error) {
	user.UpdateProfile(profile.DisplayName, profile.Email, profile.AvatarURL)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update user %d: %w", user.ID, err)
	}
	return user, user.GrantedRole(), nil
}

// LoadUser is the user-loading hook run after the provider handshake. It
// normalizes the raw payload, reconciles it, and returns a principal whose
// attributes are the provider's plus the local user id.
func (s *Service) LoadUser(ctx context.Context, providerName string, raw map[string]any) (*oauth.Principal, error) {
	provider, err := oauth.ParseProvider(providerName)
	if err != nil {
		return nil, err
	}
	profile, err := oauth.Normalize(provider, raw)
	if err != nil {
		return nil, err
	}
	user, role, err := s.Reconcile(ctx, profile)
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]any, len(raw)+1)
	maps.Copy(attrs, raw)
	attrs[oauth.AttrUserID] = user.ID
	return &oauth.Principal{Attributes: attrs, Role: role}, nil
}
