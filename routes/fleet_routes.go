package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jadesdev/limo-drive/handlers"
)

func FleetRoutes(app *fiber.App, h *handlers.FleetHandler) {
	api := app.Group("/api/v1")

	fleets := api.Group("/fleets")
	fleets.Get("", h.ListFleets)
	fleets.Get("/:id", h.GetFleet)
}
