package repository

import (
	"context"

	"github.com/group2dev/landmark-api/app/models"
	"gorm.io/gorm"
)

// UserRepository is the identity store used by login reconciliation and the
// request identity filter. Absence is reported as gorm.ErrRecordNotFound and a
// (provider, external id) collision as gorm.ErrDuplicatedKey.
type UserRepository interface {
	FindByProviderAndExternalID(ctx context.Context, provider models.AuthProvider, externalID string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// BoundaryRepository defines read access to administrative boundaries
type BoundaryRepository interface {
	GetByCode(ctx context.Context, admCode string) (*models.AdmBoundaryGeometry, error)
	Exists(ctx context.Context, admCode string) (bool, error)
	ListSimplifiedByLevel(ctx context.Context, level int16, tolerance float64) ([]models.AdmBoundaryGeometry, error)
}

// LandmarkRepository defines landmark persistence operations
type LandmarkRepository interface {
	Create(ctx context.Context, landmark *models.Landmark) error
	GetByID(ctx context.Context, id uint) (*models.Landmark, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ListAll(ctx context.Context) ([]models.Landmark, error)
	SearchByName(ctx context.Context, name string) ([]models.Landmark, error)
	ListByAdmCode(ctx context.Context, admCode string) ([]models.Landmark, error)
	ListPage(ctx context.Context, offset, limit int) ([]models.Landmark, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// RasterRepository defines read access to precomputed raster statistics
type RasterRepository interface {
	ListSimplified(ctx context.Context, landmarkID uint, year, month int, tolerance float64) ([]models.RasterSimplified, error)
	StatsByMonth(ctx context.Context, landmarkID uint, year, month int) ([]models.RasterStat, error)
	StatsForMonths(ctx context.Context, landmarkIDs []uint, year int, months []int) ([]models.RasterStat, error)
}

// NoteRepository defines note persistence operations
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uint) (*models.Note, error)
	ListByUserAndLandmark(ctx context.Context, userID, landmarkID uint) ([]models.Note, error)
	Delete(ctx context.Context, id uint) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Boundary BoundaryRepository
	Landmark LandmarkRepository
	Raster   RasterRepository
	Note     NoteRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Boundary: NewBoundaryRepository(db),
		Landmark: NewLandmarkRepository(db),
		Raster:   NewRasterRepository(db),
		Note:     NewNoteRepository(db),
	}
}
