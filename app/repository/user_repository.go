package repository

import (
	"context"

	"github.com/group2dev/landmark-api/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
// The db handle must be opened with TranslateError so that unique index
// violations surface as gorm.ErrDuplicatedKey.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByProviderAndExternalID retrieves a user by provider identity
func (r *userRepository) FindByProviderAndExternalID(ctx context.Context, provider models.AuthProvider, externalID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("provider = ? AND external_id = ?", provider, externalID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by their ID
func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Save inserts a new user or updates an existing one
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	if user.ID == 0 {
		return r.db.WithContext(ctx).Create(user).Error
	}
	return r.db.WithContext(ctx).Save(user).Error
}
