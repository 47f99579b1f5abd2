package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/group2dev/landmark-api/app/controllers"
	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/internal/pkg/env"
	"github.com/group2dev/landmark-api/internal/pkg/middleware"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				JSON(viewmodel.Fail(viewmodel.CodeInvalidRequest, "too many requests"))
		},
	}))

	// OAuth2 login
	auth := api.Group("/auth")
	auth.Get("/:provider", h.deps.Auth.HandleBegin)
	auth.Get("/:provider/callback", h.deps.Auth.HandleCallback)

	api.Get("/users/me", middleware.RequireAuth, controllers.HandleMe)

	// Map data
	api.Get("/boundaries", h.deps.Boundaries.HandleList)
	api.Get("/boundaries/:admCode", h.deps.Boundaries.HandleGet)

	landmarks := api.Group("/landmarks")
	landmarks.Get("/", h.deps.Landmarks.HandleList)
	landmarks.Get("/wfs", h.deps.Landmarks.HandleWFS)
	landmarks.Get("/byAdm/:admCode", h.deps.Landmarks.HandleByAdm)
	landmarks.Get("/:id", h.deps.Landmarks.HandleGet)
	landmarks.Get("/:id/rasters", h.deps.Landmarks.HandleRasters)
	landmarks.Get("/:id/risk", h.deps.Landmarks.HandleRisk)
	landmarks.Post("/", middleware.RequireRole(models.ROLE_ADMIN), h.deps.Landmarks.HandleCreate)
	landmarks.Delete("/:id", middleware.RequireRole(models.ROLE_ADMIN), h.deps.Landmarks.HandleDelete)

	admin := api.Group("/admin", middleware.RequireRole(models.ROLE_ADMIN))
	admin.Get("/landmarks/monthly", h.deps.Admin.HandleMonthlyOverview)

	notes := api.Group("/notes", middleware.RequireAuth)
	notes.Post("/:landmarkId", h.deps.Notes.HandleCreate)
	notes.Get("/:landmarkId", h.deps.Notes.HandleList)
	notes.Delete("/:noteId", h.deps.Notes.HandleDelete)
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
