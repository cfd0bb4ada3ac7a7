package router

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ManuelReschke/SellerDesk/app/controllers"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/attachment"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/config"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/env"
)

// Router registers a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// openAPIFile is looked up relative to the possible project roots.
const openAPIFile = "public/docs/v1/openapi.yml"

var basePaths = []string{
	"./",        // Current directory
	"../../",    // From cmd/sellerdesk to project root
	"../../../", // Fallback
}

// NewApplication builds the admin gateway serving resources.
func NewApplication(cfg *config.Config, resources controllers.Resources) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:           "SellerDesk",
		BodyLimit:         4 * attachment.MaxFileSize,
		EnablePrintRoutes: env.IsDev(),
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	if cfg.MetricsEnabled() {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.MetricsUser: cfg.MetricsPassword,
			},
		}), monitor.New(monitor.Config{Title: "SellerDesk Metrics"}))
	}

	// SWAGGER / OPENAPI
	if specPath := findOpenAPIFile(); specPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: specPath,
			Path:     "v1",
		}))
	} else {
		log.Debugf("[Gateway] %s not found, API docs disabled", openAPIFile)
	}

	// ROUTER
	InstallRouter(app, cfg, resources)

	return app
}

func InstallRouter(app *fiber.App, cfg *config.Config, resources controllers.Resources) {
	setup(app, NewApiRouter(cfg, resources))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

func findOpenAPIFile() string {
	for _, path := range basePaths {
		if _, err := os.Stat(path + openAPIFile); err == nil {
			return path + openAPIFile
		}
	}
	return ""
}
