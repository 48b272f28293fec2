package handlers

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.Customer{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return serviceError(c, err)
	}

	var customers []models.Customer
	err := query.Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&customers).Error
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   customers,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

type updateCustomerRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Phone     *string `json:"phone"`
	Language  *string `json:"language"`
}

func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return serviceError(c, err)
	}

	var req updateCustomerRequest
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
	if req.Language != nil {
		updates["language"] = *req.Language
	}

	if len(updates) > 0 {
		if err := h.db.Model(&customer).Updates(updates).Error; err != nil {
			return serviceError(c, err)
		}
	}
	return c.JSON(fiber.Map{"status": "success", "data": customer})
}

func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	err := h.db.Preload("Bookings", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at desc")
	}).Preload("Bookings.Fleet").First(&customer, "id = ?", c.Params("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Customer not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": customer})
}
