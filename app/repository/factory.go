package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetBoundaryRepository returns the boundary repository instance
func (f *Factory) GetBoundaryRepository() BoundaryRepository {
	return f.GetRepositories().Boundary
}

// GetLandmarkRepository returns the landmark repository instance
func (f *Factory) GetLandmarkRepository() LandmarkRepository {
	return f.GetRepositories().Landmark
}

// GetRasterRepository returns the raster repository instance
func (f *Factory) GetRasterRepository() RasterRepository {
	return f.GetRepositories().Raster
}

// GetNoteRepository returns the note repository instance
func (f *Factory) GetNoteRepository() NoteRepository {
	return f.GetRepositories().Note
}
