package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/models"
	"github.com/jadesdev/limo-drive/services"
)

type PaymentHandler struct {
	db       *gorm.DB
	receipts *services.ReceiptService
}

func NewPaymentHandler(db *gorm.DB, receipts *services.ReceiptService) *PaymentHandler {
	return &PaymentHandler{db: db, receipts: receipts}
}

func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&models.Payment{})
	if gateway := c.Query("gateway"); gateway != "" {
		query = query.Where("gateway_name = ?", gateway)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("code ILIKE ? OR customer_email ILIKE ? OR gateway_ref ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return serviceError(c, err)
	}

	var payments []models.Payment
	err := query.Preload("Booking").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&payments).Error
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   payments,
		"meta": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	payment, err := h.findPayment(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "success", "data": payment})
}

// DownloadReceipt streams the payment receipt as a PDF attachment.
func (h *PaymentHandler) DownloadReceipt(c *fiber.Ctx) error {
	payment, err := h.findPayment(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment not found"})
		}
		return serviceError(c, err)
	}

	pdf, err := h.receipts.GenerateReceiptPDF(c.Context(), payment)
	if err != nil {
		return serviceError(c, err)
	}

	filename := fmt.Sprintf("receipt-%s.pdf", payment.ID)
	if payment.Code != nil {
		filename = fmt.Sprintf("receipt-%s.pdf", *payment.Code)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

func (h *PaymentHandler) findPayment(id string) (*models.Payment, error) {
	var payment models.Payment
	err := h.db.Preload("Booking").Preload("Booking.Fleet").Preload("Booking.Customer").
		First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
