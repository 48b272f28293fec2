package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jadesdev/limo-drive/models"
	"github.com/jadesdev/limo-drive/services"
)

type BookingHandler struct {
	bookings *services.BookingService
	payments *services.BookingPaymentService
}

func NewBookingHandler(bookings *services.BookingService, payments *services.BookingPaymentService) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments}
}

// GetQuote prices every suitable vehicle for a trip without creating
// anything.
func (h *BookingHandler) GetQuote(c *fiber.Ctx) error {
	var req services.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quote, err := h.bookings.GetQuote(c.Context(), req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   quoteResponse(quote),
	})
}

func quoteResponse(quote *services.QuoteResult) fiber.Map {
	items := make([]fiber.Map, 0)
	switch quote.Kind {
	case services.QuoteKindDistance:
		for _, item := range quote.Distance {
			items = append(items, fiber.Map{
				"fleet":     item.Fleet,
				"price":     item.Price,
				"breakdown": item.Breakdown,
			})
		}
	case services.QuoteKindHourly:
		for _, item := range quote.Hourly {
			items = append(items, fiber.Map{
				"fleet":     item.Fleet,
				"price":     item.Price,
				"hours":     item.Hours,
				"breakdown": item.Breakdown,
			})
		}
	}

	resp := fiber.Map{
		"pricing_type": quote.Kind,
		"quotes":       items,
	}
	if quote.Route != nil {
		resp["route"] = quote.Route
	}
	return resp
}

func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var input services.CreateBookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.CreateBooking(c.Context(), input)
	if err != nil {
		return serviceError(c, err)
	}

	data := fiber.Map{"booking": booking}

	// Start the gateway checkout inline so the client gets booking and
	// payment credentials in one round trip.
	if booking.PaymentMethod != models.PaymentMethodCash {
		intent, err := h.payments.CreatePaymentIntent(c.Context(), booking)
		if err != nil {
			return serviceError(c, err)
		}
		data["payment"] = intent
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	booking, err := h.bookings.GetBookingDetails(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": booking})
}

// CreatePaymentIntent restarts checkout for a booking whose earlier attempt
// was abandoned.
func (h *BookingHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	booking, err := h.bookings.GetBookingDetails(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Booking has already been paid"})
	}

	intent, err := h.payments.CreatePaymentIntent(c.Context(), booking)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": intent})
}

type confirmPaymentRequest struct {
	BookingID       string `json:"booking_id" validate:"required,uuid4"`
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func (h *BookingHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req confirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.payments.ConfirmPayment(c.Context(), req.BookingID, req.PaymentIntentID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Payment confirmed",
		"data":    booking,
	})
}
