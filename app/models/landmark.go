package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Landmark is a point of interest inside an administrative boundary.
type Landmark struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Province    string       `gorm:"type:varchar(100)" json:"province"`
	Name        string       `gorm:"type:varchar(255);not null;index" json:"name" validate:"required,max=255"`
	Address     string       `gorm:"type:varchar(255);not null" json:"address" validate:"required,max=255"`
	Latitude    float64      `gorm:"not null" json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64      `gorm:"not null" json:"longitude" validate:"gte=-180,lte=180"`
	AdmCode     string       `gorm:"column:adm_code;type:varchar(12);not null;index" json:"admCode" validate:"required,max=12"`
	AdmBoundary *AdmBoundary `gorm:"foreignKey:AdmCode;references:AdmCode" json:"-"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"createdAt"`
}

func (Landmark) TableName() string { return "landmark" }

// AdmName returns the name of the preloaded boundary, if any.
func (l *Landmark) AdmName() string {
	if l.AdmBoundary == nil {
		return ""
	}
	return l.AdmBoundary.AdmName
}

func (l *Landmark) Validate() error {
	v := validator.New()
	return v.Struct(l)
}
