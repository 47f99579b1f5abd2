package controllers

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/internal/pkg/risk"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminController serves the admin dashboard data
type AdminController struct {
	risk *risk.Service
	now  func() time.Time
}

func NewAdminController(riskService *risk.Service) *AdminController {
	return &AdminController{risk: riskService, now: time.Now}
}

// HandleMonthlyOverview pages through landmarks with their January to May risk.
// Query: year (default current year), page (zero-based), size (1..100).
func (ac *AdminController) HandleMonthlyOverview(c *fiber.Ctx) error {
	year := ac.now().Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 {
			return handleError(c, fmt.Errorf("%w: year must be 2000 or later", errInvalidRequest))
		}
		year = y
	}
	page := c.QueryInt("page", 0)
	size := c.QueryInt("size", defaultPageSize)
	if page < 0 {
		return handleError(c, fmt.Errorf("%w: page must not be negative", errInvalidRequest))
	}
	if size < 1 || size > maxPageSize {
		return handleError(c, fmt.Errorf("%w: size must be between 1 and %d", errInvalidRequest, maxPageSize))
	}
	// page*size becomes the SQL offset
	if page > math.MaxInt32/size {
		return handleError(c, fmt.Errorf("%w: page is out of range", errInvalidRequest))
	}

	overview, err := ac.risk.MonthlyOverview(c.UserContext(), year, page, size)
	if err != nil {
		return handleError(c, err)
	}
	return respondOK(c, overview)
}
