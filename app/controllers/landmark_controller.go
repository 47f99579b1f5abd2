package controllers

import (
	"context"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository"
	"github.com/group2dev/landmark-api/internal/pkg/risk"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

// RasterTolerance keeps raster footprints detailed; boundaries use a coarser one.
const RasterTolerance = 0.0001

// Presigner issues download links for raster objects.
type Presigner interface {
	PresignGet(ctx context.Context, s3Path string) (string, error)
}

// FeatureSource serves the GeoServer landmark layer.
type FeatureSource interface {
	Features(ctx context.Context) (json.RawMessage, error)
}

// LandmarkController serves landmarks and their raster-derived data
type LandmarkController struct {
	repos     *repository.Repositories
	risk      *risk.Service
	presigner Presigner
	features  FeatureSource
}

// NewLandmarkController creates the controller; presigner may be nil when
// object storage is not configured.
func NewLandmarkController(repos *repository.Repositories, riskService *risk.Service, presigner Presigner, features FeatureSource) *LandmarkController {
	return &LandmarkController{repos: repos, risk: riskService, presigner: presigner, features: features}
}

// CreateLandmarkRequest is the admin payload for a new landmark.
type CreateLandmarkRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Province  string  `json:"province"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AdmCode   string  `json:"admCode"`
}

// HandleList lists all landmarks, or those whose name contains ?q=
func (lc *LandmarkController) HandleList(c *fiber.Ctx) error {
	var (
		landmarks []models.Landmark
		err       error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		landmarks, err = lc.repos.Landmark.SearchByName(c.UserContext(), q)
	} else {
		landmarks, err = lc.repos.Landmark.ListAll(c.UserContext())
	}
	if err != nil {
		return handleError(c, err)
	}
	return respondOK(c, viewmodel.FromLandmarks(landmarks))
}

func (lc *LandmarkController) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	landmark, err := lc.repos.Landmark.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, notFoundAs(err, errLandmarkNotFound))
	}
	return respondOK(c, viewmodel.FromLandmark(landmark))
}

// HandleByAdm lists the landmarks inside one administrative boundary
func (lc *LandmarkController) HandleByAdm(c *fiber.Ctx) error {
	admCode := c.Params("admCode")
	exists, err := lc.repos.Boundary.Exists(c.UserContext(), admCode)
	if err != nil {
		return handleError(c, err)
	}
	if !exists {
		return handleError(c, errBoundaryNotFound)
	}
	landmarks, err := lc.repos.Landmark.ListByAdmCode(c.UserContext(), admCode)
	if err != nil {
		return handleError(c, err)
	}
	return respondOK(c, viewmodel.FromLandmarks(landmarks))
}

// HandleRasters returns the month's index rasters with download links
func (lc *LandmarkController) HandleRasters(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	year, month, err := parseYearMonth(c)
	if err != nil {
		return handleError(c, err)
	}
	exists, err := lc.repos.Landmark.Exists(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	if !exists {
		return handleError(c, errLandmarkNotFound)
	}

	rows, err := lc.repos.Raster.ListSimplified(c.UserContext(), id, year, month, RasterTolerance)
	if err != nil {
		return handleError(c, err)
	}
	out := make([]viewmodel.Raster, 0, len(rows))
	for i := range rows {
		r := viewmodel.FromRaster(&rows[i])
		if lc.presigner != nil {
			if link, err := lc.presigner.PresignGet(c.UserContext(), rows[i].S3Path); err != nil {
				log.Warnf("[Raster] no download link for %s: %v", rows[i].S3Path, err)
			} else {
				r.DownloadURL = link
			}
		}
		out = append(out, r)
	}
	return respondOK(c, out)
}

// HandleRisk returns the month's risk score for a landmark
func (lc *LandmarkController) HandleRisk(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	year, month, err := parseYearMonth(c)
	if err != nil {
		return handleError(c, err)
	}
	result, err := lc.risk.ByMonth(c.UserContext(), id, year, month)
	if err != nil {
		return handleError(c, err)
	}
	return respondOK(c, result)
}

// HandleWFS proxies GeoServer's landmark feature collection
func (lc *LandmarkController) HandleWFS(c *fiber.Ctx) error {
	features, err := lc.features.Features(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return respondOK(c, features)
}

// HandleCreate adds a landmark to an existing boundary (admin only)
func (lc *LandmarkController) HandleCreate(c *fiber.Ctx) error {
	var req CreateLandmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, viewmodel.CodeInvalidRequest, "malformed request body")
	}

	landmark := &models.Landmark{
		Province:  strings.TrimSpace(req.Province),
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		AdmCode:   strings.TrimSpace(req.AdmCode),
	}
	if err := landmark.Validate(); err != nil {
		return handleError(c, err)
	}

	boundary, err := lc.repos.Boundary.GetByCode(c.UserContext(), landmark.AdmCode)
	if err != nil {
		return handleError(c, notFoundAs(err, errBoundaryNotFound))
	}
	if err := lc.repos.Landmark.Create(c.UserContext(), landmark); err != nil {
		return handleError(c, err)
	}
	landmark.AdmBoundary = &models.AdmBoundary{AdmCode: boundary.AdmCode, AdmName: boundary.AdmName, Level: boundary.Level}

	log.Infof("[Landmark] created %d %q in %s", landmark.ID, landmark.Name, landmark.AdmCode)
	return respondCreated(c, viewmodel.FromLandmark(landmark))
}

// HandleDelete removes a landmark (admin only)
func (lc *LandmarkController) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	exists, err := lc.repos.Landmark.Exists(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	if !exists {
		return handleError(c, errLandmarkNotFound)
	}
	if err := lc.repos.Landmark.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return respondOK(c, nil)
}
