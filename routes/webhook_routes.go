package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jadesdev/limo-drive/handlers"
)

func WebhookRoutes(app *fiber.App, h *handlers.WebhookHandler) {
	webhooks := app.Group("/api/v1/webhooks")
	webhooks.Post("/stripe", h.HandleStripeWebhook)
	webhooks.Post("/paypal", h.HandlePayPalWebhook)
}
