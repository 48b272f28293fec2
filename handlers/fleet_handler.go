package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/models"
)

type FleetHandler struct {
	db *gorm.DB
}

func NewFleetHandler(db *gorm.DB) *FleetHandler {
	return &FleetHandler{db: db}
}

// ListFleets is the public catalog: active vehicles only, in display order.
func (h *FleetHandler) ListFleets(c *fiber.Ctx) error {
	var fleets []models.Fleet
	err := h.db.Where("is_active = ?", true).Order("sort_order asc").Find(&fleets).Error
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": fleets})
}

func (h *FleetHandler) GetFleet(c *fiber.Ctx) error {
	fleet, err := h.findFleet(c.Params("id"))
	if err != nil {
		return fleetNotFound(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": fleet})
}

// AdminListFleets includes inactive vehicles.
func (h *FleetHandler) AdminListFleets(c *fiber.Ctx) error {
	var fleets []models.Fleet
	if err := h.db.Order("sort_order asc").Find(&fleets).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": fleets})
}

type fleetRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description"`
	Thumbnail    *string `json:"thumbnail"`
	Seats        int     `json:"seats" validate:"required,min=1"`
	Bags         int     `json:"bags" validate:"min=0"`
	BaseFee      float64 `json:"base_fee" validate:"min=0"`
	RatePerMile  float64 `json:"rate_per_mile" validate:"min=0"`
	RatePerHour  float64 `json:"rate_per_hour" validate:"min=0"`
	MinimumHours int     `json:"minimum_hours" validate:"min=1"`
	SortOrder    int     `json:"sort_order"`
}

func (h *FleetHandler) CreateFleet(c *fiber.Ctx) error {
	var req fleetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	fleet := models.Fleet{
		Name:         req.Name,
		Slug:         slugify(req.Name),
		Description:  req.Description,
		Thumbnail:    req.Thumbnail,
		Seats:        req.Seats,
		Bags:         req.Bags,
		BaseFee:      req.BaseFee,
		RatePerMile:  req.RatePerMile,
		RatePerHour:  req.RatePerHour,
		MinimumHours: req.MinimumHours,
		IsActive:     true,
		SortOrder:    req.SortOrder,
	}
	if err := h.db.Create(&fleet).Error; err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": fleet})
}

func (h *FleetHandler) UpdateFleet(c *fiber.Ctx) error {
	fleet, err := h.findFleet(c.Params("id"))
	if err != nil {
		return fleetNotFound(c, err)
	}

	var req fleetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"slug":          slugify(req.Name),
		"description":   req.Description,
		"thumbnail":     req.Thumbnail,
		"seats":         req.Seats,
		"bags":          req.Bags,
		"base_fee":      req.BaseFee,
		"rate_per_mile": req.RatePerMile,
		"rate_per_hour": req.RatePerHour,
		"minimum_hours": req.MinimumHours,
		"sort_order":    req.SortOrder,
	}
	if err := h.db.Model(fleet).Updates(updates).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": fleet})
}

// ToggleFleet flips a vehicle in or out of the public catalog without losing
// its pricing.
func (h *FleetHandler) ToggleFleet(c *fiber.Ctx) error {
	fleet, err := h.findFleet(c.Params("id"))
	if err != nil {
		return fleetNotFound(c, err)
	}

	if err := h.db.Model(fleet).Update("is_active", !fleet.IsActive).Error; err != nil {
		return serviceError(c, err)
	}
	fleet.IsActive = !fleet.IsActive
	return c.JSON(fiber.Map{"status": "success", "data": fleet})
}

func (h *FleetHandler) DeleteFleet(c *fiber.Ctx) error {
	fleet, err := h.findFleet(c.Params("id"))
	if err != nil {
		return fleetNotFound(c, err)
	}

	var bookingCount int64
	h.db.Model(&models.Booking{}).Where("fleet_id = ?", fleet.ID).Count(&bookingCount)
	if bookingCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Vehicle has bookings and can only be deactivated",
		})
	}

	if err := h.db.Delete(fleet).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Vehicle deleted"})
}

func (h *FleetHandler) findFleet(idOrSlug string) (*models.Fleet, error) {
	var fleet models.Fleet
	err := h.db.Where("id::text = ? OR slug = ?", idOrSlug, idOrSlug).First(&fleet).Error
	if err != nil {
		return nil, err
	}
	return &fleet, nil
}

func fleetNotFound(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}
	return serviceError(c, err)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, slug)
}
