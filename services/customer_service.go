package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/jadesdev/limo-drive/models"
)

type CustomerInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Language  string `json:"language"`
}

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// FindOrCreateCustomer looks a customer up by email and creates one when the
// email is unseen. Guest requests without an email stay anonymous.
func (s *CustomerService) FindOrCreateCustomer(tx *gorm.DB, input CustomerInput) (*models.Customer, error) {
	if input.Email == "" {
		return nil, nil
	}

	var customer models.Customer
	err := tx.Where("email = ?", input.Email).First(&customer).Error
	if err == nil {
		updates := map[string]interface{}{
			"first_name": input.FirstName,
			"last_name":  input.LastName,
			"phone":      input.Phone,
		}
		if input.Language != "" {
			updates["language"] = input.Language
		}
		if err := tx.Model(&customer).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	customer = models.Customer{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     &input.Phone,
	}
	if input.Language != "" {
		customer.Language = &input.Language
	}
	if err := tx.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// HandleCustomerUpdate applies edited contact details to a booking's customer.
// A changed email re-links the booking to whoever owns the new address rather
// than rewriting the existing customer's identity.
func (s *CustomerService) HandleCustomerUpdate(tx *gorm.DB, booking *models.Booking, input CustomerInput) error {
	if input.Email == "" {
		return nil
	}

	if booking.CustomerID != nil {
		var current models.Customer
		if err := tx.First(&current, "id = ?", booking.CustomerID).Error; err != nil {
			return err
		}
		if current.Email == input.Email {
			updates := map[string]interface{}{
				"first_name": input.FirstName,
				"last_name":  input.LastName,
				"phone":      input.Phone,
			}
			if input.Language != "" {
				updates["language"] = input.Language
			}
			return tx.Model(&current).Updates(updates).Error
		}
	}

	customer, err := s.FindOrCreateCustomer(tx, input)
	if err != nil {
		return err
	}
	if customer == nil {
		return nil
	}
	booking.CustomerID = &customer.ID
	return tx.Model(booking).Update("customer_id", customer.ID).Error
}

// UpdateCustomerStats bumps the booking counter and activity timestamp.
// Failures here are logged rather than failing the booking.
func (s *CustomerService) UpdateCustomerStats(tx *gorm.DB, customer *models.Customer) {
	if customer == nil {
		return
	}
	now := time.Now()
	err := tx.Model(customer).Updates(map[string]interface{}{
		"bookings_count": gorm.Expr("bookings_count + 1"),
		"last_active":    now,
	}).Error
	if err != nil {
		log.Printf("Failed to update customer stats for %s: %v", customer.Email, err)
	}
}
