package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

// BoundaryTolerance trades detail for payload size on the overview map.
const BoundaryTolerance = 0.005

type BoundaryController struct {
	boundaries repository.BoundaryRepository
}

func NewBoundaryController(boundaries repository.BoundaryRepository) *BoundaryController {
	return &BoundaryController{boundaries: boundaries}
}

// HandleList returns the top-level regions with simplified geometry
func (bc *BoundaryController) HandleList(c *fiber.Ctx) error {
	rows, err := bc.boundaries.ListSimplifiedByLevel(c.UserContext(), models.SidoLevel, BoundaryTolerance)
	if err != nil {
		return handleError(c, err)
	}
	out := make([]viewmodel.Boundary, 0, len(rows))
	for i := range rows {
		out = append(out, viewmodel.FromBoundary(&rows[i]))
	}
	return respondOK(c, out)
}

// HandleGet returns one boundary with its full geometry
func (bc *BoundaryController) HandleGet(c *fiber.Ctx) error {
	b, err := bc.boundaries.GetByCode(c.UserContext(), c.Params("admCode"))
	if err != nil {
		return handleError(c, notFoundAs(err, errBoundaryNotFound))
	}
	return respondOK(c, viewmodel.FromBoundary(b))
}
