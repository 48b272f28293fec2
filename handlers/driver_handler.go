package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/models"
)

type DriverHandler struct {
	db *gorm.DB
}

func NewDriverHandler(db *gorm.DB) *DriverHandler {
	return &DriverHandler{db: db}
}

func (h *DriverHandler) ListDrivers(c *fiber.Ctx) error {
	query := h.db.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("available") == "true" {
		query = query.Where("status = ? AND is_available = ?", "active", true)
	}

	var drivers []models.Driver
	if err := query.Find(&drivers).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": drivers})
}

func (h *DriverHandler) GetDriver(c *fiber.Ctx) error {
	var driver models.Driver
	err := h.db.Preload("Bookings", func(db *gorm.DB) *gorm.DB {
		return db.Order("pickup_datetime desc").Limit(20)
	}).First(&driver, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": driver})
}

type driverRequest struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Phone         string  `json:"phone" validate:"required"`
	LicenseNumber *string `json:"license_number"`
	ProfileImage  *string `json:"profile_image"`
}

func (h *DriverHandler) CreateDriver(c *fiber.Ctx) error {
	var req driverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	driver := models.Driver{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
		ProfileImage:  req.ProfileImage,
		Status:        "active",
		IsAvailable:   true,
	}
	if err := h.db.Create(&driver).Error; err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": driver})
}

type updateDriverRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"license_number"`
	ProfileImage  *string `json:"profile_image"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive"`
	IsAvailable   *bool   `json:"is_available"`
}

func (h *DriverHandler) UpdateDriver(c *fiber.Ctx) error {
	var driver models.Driver
	if err := h.db.First(&driver, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
		}
		return serviceError(c, err)
	}

	var req updateDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.LicenseNumber != nil {
		updates["license_number"] = *req.LicenseNumber
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := h.db.Model(&driver).Updates(updates).Error; err != nil {
			return serviceError(c, err)
		}
	}
	return c.JSON(fiber.Map{"status": "success", "data": driver})
}

func (h *DriverHandler) DeleteDriver(c *fiber.Ctx) error {
	var driver models.Driver
	if err := h.db.First(&driver, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
		}
		return serviceError(c, err)
	}

	var activeCount int64
	h.db.Model(&models.Booking{}).
		Where("driver_id = ? AND status IN ?", driver.ID, []string{"confirmed", "in_progress"}).
		Count(&activeCount)
	if activeCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Driver has active trips and cannot be removed",
		})
	}

	if err := h.db.Delete(&driver).Error; err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "message": "Driver removed"})
}
