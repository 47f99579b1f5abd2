package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/group2dev/landmark-api/app/controllers"
	"github.com/group2dev/landmark-api/app/repository"
	"github.com/group2dev/landmark-api/internal/pkg/cache"
	"github.com/group2dev/landmark-api/internal/pkg/database"
	"github.com/group2dev/landmark-api/internal/pkg/env"
	"github.com/group2dev/landmark-api/internal/pkg/geoserver"
	"github.com/group2dev/landmark-api/internal/pkg/identity"
	"github.com/group2dev/landmark-api/internal/pkg/notes"
	"github.com/group2dev/landmark-api/internal/pkg/oauth"
	"github.com/group2dev/landmark-api/internal/pkg/rasterstore"
	"github.com/group2dev/landmark-api/internal/pkg/risk"
	"github.com/group2dev/landmark-api/internal/pkg/router"
	"github.com/group2dev/landmark-api/internal/pkg/security"
	"github.com/group2dev/landmark-api/internal/pkg/usercontext"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "8080")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	oauth.Setup()

	// Define possible base paths
	basePaths := []string{
		"./",     // Current directory
		"../../", // From cmd/landmark to project root
	}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs/v1/openapi.yml"); err == nil {
			basePath = path
			break
		}
	}

	// a weak or missing secret must stop the service before it serves a request
	tokens, err := security.NewTokenCodec(env.GetEnv("JWT_SECRET", ""))
	if err != nil {
		log.Fatalf("JWT_SECRET: %v", err)
	}
	responder, err := oauth.NewSuccessResponder(tokens, env.GetEnv("OAUTH2_REDIRECT_URI", "http://localhost:5173/oauth2/redirect"))
	if err != nil {
		log.Fatalf("OAUTH2_REDIRECT_URI: %v", err)
	}

	repos := repository.NewFactory(database.GetDB()).GetRepositories()
	riskService := risk.NewService(repos.Landmark, repos.Raster)

	deps := router.Dependencies{
		Repos:      repos,
		Tokens:     tokens,
		Auth:       controllers.NewAuthController(identity.NewService(repos.User), responder, env.GetEnv("OAUTH2_FAILURE_REDIRECT_URI", "")),
		Landmarks:  controllers.NewLandmarkController(repos, riskService, newPresigner(), geoserver.NewClientFromEnv()),
		Boundaries: controllers.NewBoundaryController(repos.Boundary),
		Notes:      controllers.NewNoteController(notes.NewService(repos.Note, repos.Landmark, repos.User)),
		Admin:      controllers.NewAdminController(riskService),
		Health: controllers.HandleHealth(map[string]controllers.Pinger{
			"database": func(ctx context.Context) error { return database.Ping() },
			"cache":    cache.Ping,
		}),
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		BodyLimit:   1 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(
		recover.New(),
		requestid.New(requestid.Config{Generator: uuid.NewString}),
		logger.New(logger.Config{
			Format: "${time} ${locals:requestid} user=${locals:" + usercontext.KeyUserID + "} ${status} - ${latency} ${method} ${path}\n",
		}),
	)

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, deps)

	return app
}

// newPresigner returns nil when raster downloads are not served from S3.
func newPresigner() controllers.Presigner {
	cfg, err := rasterstore.LoadConfig()
	if err != nil {
		log.Fatalf("raster storage: %v", err)
	}
	if !cfg.IsEnabled() {
		fiberlog.Info("[Raster] S3 disabled, rasters are served without download links")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := rasterstore.NewClient(ctx, cfg)
	if err != nil {
		fiberlog.Warnf("[Raster] S3 unavailable, rasters are served without download links: %v", err)
		return nil
	}
	return client
}
