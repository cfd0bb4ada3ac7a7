package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/metrics/counter"
)

// HandleGatewayStats returns the per-route request counters.
func HandleGatewayStats(counters *counter.Counters) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := counters.Snapshot(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(fiber.Map{"enabled": counters.Enabled(), "counters": snap})
	}
}
