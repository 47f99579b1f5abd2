package repository

import (
	"context"
	"strings"

	"github.com/group2dev/landmark-api/app/models"
	"gorm.io/gorm"
)

type landmarkRepository struct {
	db *gorm.DB
}

// NewLandmarkRepository creates a new landmark repository instance
func NewLandmarkRepository(db *gorm.DB) LandmarkRepository {
	return &landmarkRepository{db: db}
}

// Create creates a new landmark in the database
func (r *landmarkRepository) Create(ctx context.Context, landmark *models.Landmark) error {
	return r.db.WithContext(ctx).Create(landmark).Error
}

// GetByID retrieves a landmark with its boundary
func (r *landmarkRepository) GetByID(ctx context.Context, id uint) (*models.Landmark, error) {
	var landmark models.Landmark
	err := r.db.WithContext(ctx).Preload("AdmBoundary").First(&landmark, id).Error
	if err != nil {
		return nil, err
	}
	return &landmark, nil
}

// Exists reports whether a landmark with the given ID exists
func (r *landmarkRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Landmark{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListAll lists all landmarks ordered by province and name
func (r *landmarkRepository) ListAll(ctx context.Context) ([]models.Landmark, error) {
	var landmarks []models.Landmark
	err := r.db.WithContext(ctx).Preload("AdmBoundary").Order("province ASC, name ASC").Find(&landmarks).Error
	return landmarks, err
}

// SearchByName searches landmarks by name, case-insensitively
func (r *landmarkRepository) SearchByName(ctx context.Context, name string) ([]models.Landmark, error) {
	var landmarks []models.Landmark
	err := r.db.WithContext(ctx).Preload("AdmBoundary").
		Where(`LOWER(name) LIKE ? ESCAPE '\\'`, containsPattern(name)).
		Order("name ASC").
		Find(&landmarks).Error
	return landmarks, err
}

var likeEscaper = strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")

// containsPattern builds a lower-case LIKE pattern matching name literally
// anywhere in the column.
func containsPattern(name string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(name))) + "%"
}

// ListByAdmCode lists the landmarks inside one boundary
func (r *landmarkRepository) ListByAdmCode(ctx context.Context, admCode string) ([]models.Landmark, error) {
	var landmarks []models.Landmark
	err := r.db.WithContext(ctx).Preload("AdmBoundary").
		Where("adm_code = ?", admCode).
		Order("name ASC").
		Find(&landmarks).Error
	return landmarks, err
}

// ListPage retrieves a page of landmarks ordered by ID
func (r *landmarkRepository) ListPage(ctx context.Context, offset, limit int) ([]models.Landmark, error) {
	var landmarks []models.Landmark
	err := r.db.WithContext(ctx).Preload("AdmBoundary").Order("id ASC").Offset(offset).Limit(limit).Find(&landmarks).Error
	return landmarks, err
}

// Count returns the total number of landmarks
func (r *landmarkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Landmark{}).Count(&count).Error
	return count, err
}

// Delete removes a landmark by its ID
func (r *landmarkRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Landmark{}, id).Error
}
