package models

import (
	"time"

	"github.com/google/uuid"
)

type Fleet struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:255;not null;unique" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Thumbnail   *string   `gorm:"size:255" json:"thumbnail,omitempty"`

	Seats int `gorm:"not null;default:1" json:"seats"`
	Bags  int `gorm:"not null;default:0" json:"bags"`

	BaseFee      float64 `gorm:"type:numeric(10,2);not null;default:0" json:"base_fee"`
	RatePerMile  float64 `gorm:"type:numeric(10,2);not null;default:0" json:"rate_per_mile"`
	RatePerHour  float64 `gorm:"type:numeric(10,2);not null;default:0" json:"rate_per_hour"`
	MinimumHours int     `gorm:"not null;default:1" json:"minimum_hours"`

	IsActive  bool `gorm:"default:true" json:"is_active"`
	SortOrder int  `gorm:"default:0" json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
