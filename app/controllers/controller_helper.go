package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/group2dev/landmark-api/internal/pkg/geoserver"
	"github.com/group2dev/landmark-api/internal/pkg/notes"
	"github.com/group2dev/landmark-api/internal/pkg/risk"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

var (
	errLandmarkNotFound = errors.New("landmark not found")
	errBoundaryNotFound = errors.New("administrative boundary not found")
	errInvalidRequest   = errors.New("invalid request")
)

func respondOK(c *fiber.Ctx, data any) error {
	return c.JSON(viewmodel.OK(data))
}

func respondCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(viewmodel.OK(data))
}

func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(viewmodel.Fail(code, message))
}

// handleError maps service errors onto the API error envelope. Unknown errors
// are logged and reported as 500 without their details.
func handleError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return respondError(c, fiber.StatusBadRequest, viewmodel.CodeInvalidRequest, verrs.Error())
	case errors.Is(err, errInvalidRequest):
		return respondError(c, fiber.StatusBadRequest, viewmodel.CodeInvalidRequest, err.Error())
	case errors.Is(err, errLandmarkNotFound),
		errors.Is(err, risk.ErrLandmarkNotFound),
		errors.Is(err, notes.ErrLandmarkNotFound):
		return respondError(c, fiber.StatusNotFound, viewmodel.CodeLandmarkNotFound, "landmark not found")
	case errors.Is(err, errBoundaryNotFound):
		return respondError(c, fiber.StatusNotFound, viewmodel.CodeBoundaryNotFound, "administrative boundary not found")
	case errors.Is(err, risk.ErrRiskDataNotFound):
		return respondError(c, fiber.StatusNotFound, viewmodel.CodeDataNotFound, "no NDVI/NDMI data for the requested month")
	case errors.Is(err, notes.ErrNoteNotFound):
		return respondError(c, fiber.StatusNotFound, viewmodel.CodeNoteNotFound, "note not found")
	case errors.Is(err, notes.ErrNotOwner):
		return respondError(c, fiber.StatusForbidden, viewmodel.CodeForbidden, "note belongs to another user")
	case errors.Is(err, notes.ErrUserNotFound):
		return respondError(c, fiber.StatusUnauthorized, viewmodel.CodeUnauthorized, "user no longer exists")
	case errors.Is(err, geoserver.ErrUnavailable):
		log.Warnf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return respondError(c, fiber.StatusBadGateway, viewmodel.CodeUpstreamUnavailable, "map server unavailable")
	default:
		log.Errorf("[API] %s %s: %v", c.Method(), c.Path(), err)
		return respondError(c, fiber.StatusInternalServerError, viewmodel.CodeInternal, "internal server error")
	}
}

// notFoundAs converts gorm's absence error into a domain error.
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errInvalidRequest, name)
	}
	return uint(id), nil
}

// parseYearMonth reads year (>= 2000) and month (1..12) query parameters.
func parseYearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 {
		return 0, 0, fmt.Errorf("%w: year must be 2000 or later", errInvalidRequest)
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month must be between 1 and 12", errInvalidRequest)
	}
	return year, month, nil
}
