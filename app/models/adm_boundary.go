package models

import "encoding/json"

// SidoLevel is the boundary level of top-level administrative regions.
const SidoLevel = 1

// AdmBoundary is an administrative region. The MULTIPOLYGON geometry column is
// only ever read through ST_AsGeoJSON, so it is not mapped as a struct field.
type AdmBoundary struct {
	AdmCode string `gorm:"primaryKey;column:adm_code;type:varchar(12)" json:"admCode"`
	AdmName string `gorm:"column:adm_name;type:text;not null" json:"admName"`
	Level   int16  `gorm:"column:level;not null" json:"level"`
}

func (AdmBoundary) TableName() string { return "adm_boundary" }

// AdmBoundaryGeometry is a boundary row joined with its geometry as GeoJSON.
type AdmBoundaryGeometry struct {
	AdmCode  string
	AdmName  string
	Level    int16
	GeomJSON string
}

// Geometry returns the GeoJSON geometry, or nil when the row had none.
func (b AdmBoundaryGeometry) Geometry() json.RawMessage {
	if b.GeomJSON == "" {
		return nil
	}
	return json.RawMessage(b.GeomJSON)
}
