package repository

import (
	"context"

	"github.com/group2dev/landmark-api/app/models"
	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository instance
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

// Create creates a new note in the database
func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// GetByID retrieves a note by its ID
func (r *noteRepository) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	err := r.db.WithContext(ctx).First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// ListByUserAndLandmark lists a user's notes for a landmark, newest first
func (r *noteRepository) ListByUserAndLandmark(ctx context.Context, userID, landmarkID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND landmark_id = ?", userID, landmarkID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

// Delete removes a note by its ID
func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Note{}, id).Error
}
