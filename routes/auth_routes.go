package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jadesdev/limo-drive/handlers"
	"github.com/jadesdev/limo-drive/middleware"
)

func AuthRoutes(app *fiber.App, h *handlers.AuthHandler) {
	api := app.Group("/api/v1/auth")

	api.Post("/login", h.Login)
	api.Get("/me", middleware.Protected(), h.Me)
	api.Post("/change-password", middleware.Protected(), h.ChangePassword)
}
