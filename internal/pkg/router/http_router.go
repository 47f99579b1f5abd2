package router

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/group2dev/landmark-api/internal/pkg/env"
	"github.com/group2dev/landmark-api/internal/pkg/metrics"
	"github.com/group2dev/landmark-api/internal/pkg/middleware"
)

// HttpRouter installs the cross-cutting middleware and the operational endpoints.
type HttpRouter struct {
	deps Dependencies
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(env.GetEnvList("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// Apply the identity filter globally; it never rejects a request
	app.Use(middleware.UserContextMiddleware(h.deps.Tokens, h.deps.Repos.User))

	app.Get("/health", h.deps.Health)
	app.Get("/metrics", metrics.Handler())
}

func NewHttpRouter(deps Dependencies) *HttpRouter {
	return &HttpRouter{deps: deps}
}
