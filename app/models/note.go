package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Note is a private memo a user attaches to a landmark.
type Note struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_notes_user_landmark,priority:1" json:"userId"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LandmarkID uint      `gorm:"not null;index:idx_notes_user_landmark,priority:2" json:"landmarkId"`
	Content    string    `gorm:"type:text;not null" json:"content" validate:"required,max=2000"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Note) TableName() string { return "notes" }

// OwnedBy reports whether the note belongs to the given user.
func (n *Note) OwnedBy(userID uint) bool {
	return n.UserID == userID
}

func (n *Note) Validate() error {
	v := validator.New()
	return v.Struct(n)
}
