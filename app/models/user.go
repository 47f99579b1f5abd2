package models

import (
	"strings"
	"time"
)

// AuthProvider identifies the external identity source a user signed in with.
type AuthProvider string

const (
	ProviderGitHub AuthProvider = "GITHUB"
	ProviderGoogle AuthProvider = "GOOGLE"
)

const (
	RolePrefix = "ROLE_"
	ROLE_USER  = "ROLE_USER"
	ROLE_ADMIN = "ROLE_ADMIN"
)

// User is the canonical local identity. (Provider, ExternalID) is unique and
// never changes after creation; the profile fields are refreshed on every login.
type User struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Provider    AuthProvider `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_provider_external,priority:1" json:"provider"`
	ExternalID  string       `gorm:"type:varchar(191);not null;uniqueIndex:idx_users_provider_external,priority:2" json:"external_id"`
	DisplayName string       `gorm:"type:varchar(255);not null" json:"display_name"`
	Email       *string      `gorm:"type:varchar(255);uniqueIndex;default:null" json:"email"`
	AvatarURL   *string      `gorm:"type:varchar(512);default:null" json:"avatar_url"`
	Role        string       `gorm:"type:varchar(50);not null;default:'ROLE_USER'" json:"role"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UpdateProfile refreshes the mutable profile fields in place.
func (u *User) UpdateProfile(displayName string, email, avatarURL *string) {
	u.DisplayName = displayName
	u.Email = email
	u.AvatarURL = avatarURL
}

// GrantedRole returns the stored role with the ROLE_ prefix ensured.
func (u *User) GrantedRole() string {
	return NormalizeRole(u.Role)
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.GrantedRole() == ROLE_ADMIN
}

// NormalizeRole prepends ROLE_ to legacy role values that lack it.
func NormalizeRole(role string) string {
	if strings.HasPrefix(role, RolePrefix) {
		return role
	}
	return RolePrefix + role
}
