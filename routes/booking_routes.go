package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jadesdev/limo-drive/handlers"
)

func BookingRoutes(app *fiber.App, h *handlers.BookingHandler) {
	api := app.Group("/api/v1")

	booking := api.Group("/bookings")
	booking.Post("/quote", h.GetQuote)
	booking.Post("", h.CreateBooking)
	booking.Get("/:id", h.GetBooking)
	booking.Post("/:id/payment-intent", h.CreatePaymentIntent)
	booking.Post("/confirm-payment", h.ConfirmPayment)
}
