package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jadesdev/limo-drive/services"
)

type AdminBookingHandler struct {
	bookings *services.BookingService
}

func NewAdminBookingHandler(bookings *services.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{bookings: bookings}
}

func (h *AdminBookingHandler) ListBookings(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	params := services.ListBookingsParams{
		Status:      c.Query("status"),
		ServiceType: c.Query("service_type"),
		Search:      c.Query("search"),
		Page:        page,
		Limit:       limit,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			params.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			params.To = &end
		}
	}

	bookings, total, err := h.bookings.ListBookings(params)
	if err != nil {
		return serviceError(c, err)
	}

	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = 20
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   bookings,
		"meta": fiber.Map{
			"total":       total,
			"page":        params.Page,
			"limit":       params.Limit,
			"total_pages": int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	})
}

func (h *AdminBookingHandler) GetBooking(c *fiber.Ctx) error {
	booking, err := h.bookings.GetBookingDetails(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": booking})
}

func (h *AdminBookingHandler) UpdateBooking(c *fiber.Ctx) error {
	var input services.UpdateBookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.UpdateBooking(c.Params("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": booking})
}

type assignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required,uuid4"`
}

func (h *AdminBookingHandler) AssignDriver(c *fiber.Ctx) error {
	var req assignDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.AssignDriver(c.Params("id"), req.DriverID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": booking})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_progress completed cancelled"`
}

func (h *AdminBookingHandler) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookings.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": booking})
}
