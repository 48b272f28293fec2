package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Driver struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FirstName string    `gorm:"size:255;not null" json:"first_name"`
	LastName  string    `gorm:"size:255;not null" json:"last_name"`
	Email     string    `gorm:"size:255;not null;unique" json:"email"`
	Phone     string    `gorm:"size:30;not null" json:"phone"`

	LicenseNumber *string `gorm:"size:50" json:"license_number,omitempty"`
	ProfileImage  *string `gorm:"size:255" json:"profile_image,omitempty"`

	Status      string `gorm:"size:20;not null;default:'active'" json:"status"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	Bookings []Booking `gorm:"foreignkey:DriverID" json:"bookings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Driver) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}
