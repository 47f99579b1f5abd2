package repository

import (
	"context"

	"github.com/group2dev/landmark-api/app/models"
	"gorm.io/gorm"
)

type rasterRepository struct {
	db *gorm.DB
}

// NewRasterRepository creates a new raster repository instance
func NewRasterRepository(db *gorm.DB) RasterRepository {
	return &rasterRepository{db: db}
}

// ListSimplified lists the rasters of a landmark for one month with simplified footprints
func (r *rasterRepository) ListSimplified(ctx context.Context, landmarkID uint, year, month int, tolerance float64) ([]models.RasterSimplified, error) {
	var rows []models.RasterSimplified
	err := r.db.WithContext(ctx).
		Raw(`SELECT r.id, r.landmark_id, r.index_type, r.year, r.month, r.s3_path,
				r.val_mean, r.val_min, r.val_max, r.val_stddev,
				ST_AsGeoJSON(ST_Simplify(r.geom, ?)) AS geom_json
			FROM landmark_raster r
			WHERE r.landmark_id = ? AND r.year = ? AND r.month = ?
			ORDER BY r.index_type`, tolerance, landmarkID, year, month).
		Scan(&rows).Error
	return rows, err
}

// StatsByMonth returns the NDVI/NDMI means of a landmark for one month
func (r *rasterRepository) StatsByMonth(ctx context.Context, landmarkID uint, year, month int) ([]models.RasterStat, error) {
	var rows []models.RasterStat
	err := r.db.WithContext(ctx).Model(&models.LandmarkRaster{}).
		Select("landmark_id, year, month, index_type, val_mean").
		Where("landmark_id = ? AND year = ? AND month = ? AND index_type IN ?",
			landmarkID, year, month, []string{models.IndexNDVI, models.IndexNDMI}).
		Order("index_type").
		Scan(&rows).Error
	return rows, err
}

// StatsForMonths returns NDVI/NDMI means for several landmarks and months in one query
func (r *rasterRepository) StatsForMonths(ctx context.Context, landmarkIDs []uint, year int, months []int) ([]models.RasterStat, error) {
	if len(landmarkIDs) == 0 || len(months) == 0 {
		return nil, nil
	}
	var rows []models.RasterStat
	err := r.db.WithContext(ctx).Model(&models.LandmarkRaster{}).
		Select("landmark_id, year, month, index_type, val_mean").
		Where("landmark_id IN ? AND year = ? AND month IN ? AND index_type IN ?",
			landmarkIDs, year, months, []string{models.IndexNDVI, models.IndexNDMI}).
		Order("landmark_id, month, index_type").
		Scan(&rows).Error
	return rows, err
}
