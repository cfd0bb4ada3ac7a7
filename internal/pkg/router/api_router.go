package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/SellerDesk/app/controllers"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/cache"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/config"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/SellerDesk/internal/pkg/middleware"
)

type ApiRouter struct {
	cfg       *config.Config
	resources controllers.Resources
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    cache.LimiterStorage(h.cfg),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	if h.cfg.AdminAPIKey == "" {
		log.Warn("[Gateway] ADMIN_API_KEY is empty, /api/v1 is not protected")
	}

	// API v1 routes
	v1 := api.Group("/v1", middleware.AdminAPIKey(h.cfg.AdminAPIKey))
	rc := controllers.NewResourceController(h.resources)
	counters := newCounters()
	count := counters.Middleware()
	v1.Get("/ping", rc.HandlePing)
	v1.Get("/stats", controllers.HandleGatewayStats(counters))

	// seller routes come before the generic kind routes
	v1.Get("/sellers", count, rc.HandleListSellers)
	v1.Get("/sellers/:id", count, rc.HandleGetSeller)
	v1.Get("/seller/products", count, rc.HandleSellerProducts)
	v1.Get("/seller/orders", count, rc.HandleSellerOrders)

	v1.Get("/:kind", count, rc.HandleList)
	v1.Get("/:kind/:id", count, rc.HandleGet)
	v1.Post("/:kind", count, rc.HandleCreate)
	v1.Patch("/:kind/:id", count, rc.HandleUpdate)
	v1.Delete("/:kind/:id", count, rc.HandleDelete)
}

// newCounters persists request counters in the cache when it is connected.
func newCounters() *counter.Counters {
	if client := cache.GetClient(); client != nil {
		return counter.New(client)
	}
	return counter.New(nil)
}

func NewApiRouter(cfg *config.Config, resources controllers.Resources) *ApiRouter {
	return &ApiRouter{cfg: cfg, resources: resources}
}
