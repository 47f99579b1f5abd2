package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/group2dev/landmark-api/app/controllers"
	"github.com/group2dev/landmark-api/app/repository"
	"github.com/group2dev/landmark-api/internal/pkg/middleware"
)

// Router registers one group of routes.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the wired services the routes are served by.
type Dependencies struct {
	Repos      *repository.Repositories
	Tokens     middleware.TokenValidator
	Auth       *controllers.AuthController
	Landmarks  *controllers.LandmarkController
	Boundaries *controllers.BoundaryController
	Notes      *controllers.NoteController
	Admin      *controllers.AdminController
	Health     fiber.Handler
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	// HttpRouter installs the global identity filter, so it has to come
	// before any API route that relies on RequireAuth or RequireRole.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
