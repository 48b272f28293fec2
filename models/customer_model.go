package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	LastName  string    `gorm:"size:255;not null" json:"last_name"`
	Email     string    `gorm:"size:255;not null;unique" json:"email"`
	Phone     *string   `gorm:"size:30" json:"phone,omitempty"`
	Language  *string   `gorm:"size:30" json:"language,omitempty"`

	LastActive    *time.Time `json:"last_active,omitempty"`
	BookingsCount int        `gorm:"not null;default:0" json:"bookings_count"`

	Bookings []Booking `gorm:"foreignkey:CustomerID" json:"bookings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
