package viewmodel

import (
	"encoding/json"

	"github.com/group2dev/landmark-api/app/models"
)

// Landmark is the public shape of a landmark. Geometry is omitted; the
// frontend only needs the coordinates.
type Landmark struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	AdmCode   string  `json:"admCode"`
	AdmName   string  `json:"admName"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func FromLandmark(l *models.Landmark) Landmark {
	return Landmark{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		AdmCode:   l.AdmCode,
		AdmName:   l.AdmName(),
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

func FromLandmarks(ls []models.Landmark) []Landmark {
	out := make([]Landmark, 0, len(ls))
	for i := range ls {
		out = append(out, FromLandmark(&ls[i]))
	}
	return out
}

// Boundary is an administrative boundary with its GeoJSON geometry.
type Boundary struct {
	AdmCode  string          `json:"admCode"`
	AdmName  string          `json:"admName"`
	Level    int16           `json:"level"`
	GeomJSON json.RawMessage `json:"geomJson"`
}

func FromBoundary(b *models.AdmBoundaryGeometry) Boundary {
	return Boundary{AdmCode: b.AdmCode, AdmName: b.AdmName, Level: b.Level, GeomJSON: b.Geometry()}
}

// Raster is one month of index statistics with a simplified footprint.
type Raster struct {
	ID          uint            `json:"id"`
	LandmarkID  uint            `json:"landmarkId"`
	IndexType   string          `json:"indexType"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	S3Path      string          `json:"s3Path"`
	DownloadURL string          `json:"downloadUrl,omitempty"`
	ValMean     *float64        `json:"valMean"`
	ValMin      *float64        `json:"valMin"`
	ValMax      *float64        `json:"valMax"`
	ValStddev   *float64        `json:"valStddev"`
	GeomJSON    json.RawMessage `json:"geomJson"`
}

func FromRaster(r *models.RasterSimplified) Raster {
	var geom json.RawMessage
	if r.GeomJSON != "" {
		geom = json.RawMessage(r.GeomJSON)
	}
	return Raster{
		ID:         r.ID,
		LandmarkID: r.LandmarkID,
		IndexType:  r.IndexType,
		Year:       r.Year,
		Month:      r.Month,
		S3Path:     r.S3Path,
		ValMean:    r.ValMean,
		ValMin:     r.ValMin,
		ValMax:     r.ValMax,
		ValStddev:  r.ValStddev,
		GeomJSON:   geom,
	}
}

// Note is a user's memo on a landmark.
type Note struct {
	ID         uint   `json:"id"`
	LandmarkID uint   `json:"landmarkId"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

const timeLayout = "2006-01-02T15:04:05"

func FromNote(n *models.Note) Note {
	return Note{
		ID:         n.ID,
		LandmarkID: n.LandmarkID,
		Content:    n.Content,
		CreatedAt:  n.CreatedAt.Format(timeLayout),
		UpdatedAt:  n.UpdatedAt.Format(timeLayout),
	}
}

// User is the profile returned to the signed-in user.
type User struct {
	ID          uint    `json:"id"`
	Provider    string  `json:"provider"`
	DisplayName string  `json:"displayName"`
	Email       *string `json:"email"`
	AvatarURL   *string `json:"avatarUrl"`
	Role        string  `json:"role"`
}

func FromUser(u *models.User) User {
	return User{
		ID:          u.ID,
		Provider:    string(u.Provider),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		Role:        u.GrantedRole(),
	}
}
