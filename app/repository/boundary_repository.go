package repository

import (
	"context"

	"github.com/group2dev/landmark-api/app/models"
	"gorm.io/gorm"
)

type boundaryRepository struct {
	db *gorm.DB
}

// NewBoundaryRepository creates a new boundary repository instance
func NewBoundaryRepository(db *gorm.DB) BoundaryRepository {
	return &boundaryRepository{db: db}
}

// GetByCode retrieves a boundary with its full geometry
func (r *boundaryRepository) GetByCode(ctx context.Context, admCode string) (*models.AdmBoundaryGeometry, error) {
	var row models.AdmBoundaryGeometry
	res := r.db.WithContext(ctx).
		Raw(`SELECT adm_code, adm_name, level, ST_AsGeoJSON(geom) AS geom_json
			FROM adm_boundary WHERE adm_code = ?`, admCode).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// Exists reports whether a boundary with the given code exists
func (r *boundaryRepository) Exists(ctx context.Context, admCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdmBoundary{}).Where("adm_code = ?", admCode).Count(&count).Error
	return count > 0, err
}

// ListSimplifiedByLevel lists boundaries of a level with geometry simplified by tolerance (degrees)
func (r *boundaryRepository) ListSimplifiedByLevel(ctx context.Context, level int16, tolerance float64) ([]models.AdmBoundaryGeometry, error) {
	var rows []models.AdmBoundaryGeometry
	err := r.db.WithContext(ctx).
		Raw(`SELECT adm_code, adm_name, level, ST_AsGeoJSON(ST_Simplify(geom, ?)) AS geom_json
			FROM adm_boundary WHERE level = ? ORDER BY adm_code`, tolerance, level).
		Scan(&rows).Error
	return rows, err
}
