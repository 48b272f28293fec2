package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;not null" json:"booking_id"`
	Code      *string   `gorm:"size:20" json:"code,omitempty"`

	CustomerName  *string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerEmail *string `gorm:"size:255" json:"customer_email,omitempty"`

	GatewayName string `gorm:"size:50;not null;default:'stripe'" json:"gateway_name"`
	// GatewayRef and PaymentIntentID each uniquely identify a charge; the
	// intent id is the upsert key for webhook replays.
	GatewayRef      string `gorm:"size:255;unique" json:"gateway_ref"`
	PaymentIntentID string `gorm:"size:255;unique" json:"payment_intent_id"`

	Amount   float64 `gorm:"type:numeric(10,2);not null" json:"amount"`
	Currency string  `gorm:"size:3;not null" json:"currency"`
	Status   string  `gorm:"size:20;not null" json:"status"`

	GatewayPayload json.RawMessage `gorm:"type:jsonb" json:"gateway_payload,omitempty"`

	Booking *Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
