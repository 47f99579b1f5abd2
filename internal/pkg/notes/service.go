package notes

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNotOwner         = errors.New("note belongs to another user")
	ErrLandmarkNotFound = errors.New("landmark not found")
	ErrUserNotFound     = errors.New("user not found")
)

// Service manages users' private notes on landmarks.
type Service struct {
	notes     repository.NoteRepository
	landmarks repository.LandmarkRepository
	users     repository.UserRepository
}

func NewService(notes repository.NoteRepository, landmarks repository.LandmarkRepository, users repository.UserRepository) *Service {
	return &Service{notes: notes, landmarks: landmarks, users: users}
}

// Create stores a note for an existing user and landmark.
func (s *Service) Create(ctx context.Context, userID, landmarkID uint, content string) (*models.Note, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	if err := s.requireLandmark(ctx, landmarkID); err != nil {
		return nil, err
	}

	note := &models.Note{UserID: userID, LandmarkID: landmarkID, Content: content}
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// List returns the user's own notes for a landmark, newest first.
func (s *Service) List(ctx context.Context, userID, landmarkID uint) ([]models.Note, error) {
	if err := s.requireLandmark(ctx, landmarkID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByUserAndLandmark(ctx, userID, landmarkID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Delete removes a note owned by the user.
func (s *Service) Delete(ctx context.Context, userID, noteID uint) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("load note %d: %w", noteID, err)
	}
	if !note.OwnedBy(userID) {
		return ErrNotOwner
	}
	if err := s.notes.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	return nil
}

func (s *Service) requireLandmark(ctx context.Context, landmarkID uint) error {
	exists, err := s.landmarks.Exists(ctx, landmarkID)
	if err != nil {
		return fmt.Errorf("check landmark %d: %w", landmarkID, err)
	}
	if !exists {
		return ErrLandmarkNotFound
	}
	return nil
}
