package models

import (
	"encoding/json"
	"time"
)

// Raster index types produced by the external processing pipeline.
const (
	IndexNDVI = "NDVI"
	IndexNDMI = "NDMI"
)

// LandmarkRaster holds precomputed statistics for one raster tile around a
// landmark for a given month. Rows are written by the raster pipeline only.
type LandmarkRaster struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	LandmarkID     uint            `gorm:"not null;index:idx_raster_landmark_month,priority:1" json:"landmarkId"`
	IndexType      string          `gorm:"type:varchar(10);not null" json:"indexType"`
	Year           int             `gorm:"not null;index:idx_raster_landmark_month,priority:2" json:"year"`
	Month          int             `gorm:"not null;index:idx_raster_landmark_month,priority:3" json:"month"`
	S3Path         string          `gorm:"column:s3_path;type:varchar(700);not null;uniqueIndex" json:"s3Path"`
	ValMean        *float64        `gorm:"type:decimal(10,4)" json:"valMean"`
	ValMin         *float64        `gorm:"type:decimal(10,4)" json:"valMin"`
	ValMax         *float64        `gorm:"type:decimal(10,4)" json:"valMax"`
	ValStddev      *float64        `gorm:"type:decimal(10,4)" json:"valStddev"`
	SourceMetadata json.RawMessage `gorm:"type:json" json:"sourceMetadata,omitempty"`
	ProcessedAt    *time.Time      `json:"processedAt,omitempty"`
}

func (LandmarkRaster) TableName() string { return "landmark_raster" }

// RasterSimplified is a raster row with its footprint simplified to GeoJSON.
type RasterSimplified struct {
	ID         uint
	LandmarkID uint
	IndexType  string
	Year       int
	Month      int
	S3Path     string
	ValMean    *float64
	ValMin     *float64
	ValMax     *float64
	ValStddev  *float64
	GeomJSON   string
}

// RasterStat is the mean value of one index for one landmark and month.
type RasterStat struct {
	LandmarkID uint
	Year       int
	Month      int
	IndexType  string
	ValMean    *float64
}
