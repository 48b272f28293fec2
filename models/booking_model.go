package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking statuses. Online payments move pending_payment -> in_progress once
// the charge lands; cash bookings are created as confirmed.
const (
	BookingStatusPendingPayment = "pending_payment"
	BookingStatusConfirmed      = "confirmed"
	BookingStatusInProgress     = "in_progress"
	BookingStatusCompleted      = "completed"
	BookingStatusCancelled      = "cancelled"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Service types quoted by distance vs. by hour.
const (
	ServicePointToPoint    = "point_to_point"
	ServiceAirportPickup   = "airport_pickup"
	ServiceAirportTransfer = "airport_transfer"
	ServiceRoundTrip       = "round_trip"
	ServiceWedding         = "wedding"
	ServiceEvent           = "event"
	ServiceOther           = "other"
)

// Payment methods accepted at booking time.
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodPayPal = "paypal"
	PaymentMethodCash   = "cash"
)

type Booking struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Code string    `gorm:"size:20;not null;unique" json:"code"`

	FleetID    *uuid.UUID `gorm:"type:uuid" json:"fleet_id"`
	DriverID   *uuid.UUID `gorm:"type:uuid" json:"driver_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid" json:"customer_id"`

	ServiceType   string `gorm:"size:30;not null;index" json:"service_type"`
	DurationHours *int   `json:"duration_hours,omitempty"`

	PickupDatetime  time.Time `gorm:"not null;index" json:"pickup_datetime"`
	PickupAddress   string    `gorm:"type:text;not null" json:"pickup_address"`
	PickupLatitude  *string   `gorm:"size:50" json:"pickup_latitude,omitempty"`
	PickupLongitude *string   `gorm:"size:50" json:"pickup_longitude,omitempty"`

	DropoffAddress   *string `gorm:"type:text" json:"dropoff_address,omitempty"`
	DropoffLatitude  *string `gorm:"size:50" json:"dropoff_latitude,omitempty"`
	DropoffLongitude *string `gorm:"size:50" json:"dropoff_longitude,omitempty"`

	PassengerCount int `gorm:"not null;default:1" json:"passenger_count"`
	BagCount       int `gorm:"not null;default:0" json:"bag_count"`

	// Price is frozen from the matched quote at creation and never recomputed.
	Price         float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	PaymentMethod string  `gorm:"size:20" json:"payment_method"`
	PaymentStatus string  `gorm:"size:20;not null;default:'unpaid';index" json:"payment_status"`
	Notes         *string `gorm:"type:text" json:"notes,omitempty"`

	Status string `gorm:"size:30;not null;default:'pending_payment';index" json:"status"`

	Fleet    *Fleet    `gorm:"foreignkey:FleetID" json:"fleet,omitempty"`
	Driver   *Driver   `gorm:"foreignkey:DriverID" json:"driver,omitempty"`
	Customer *Customer `gorm:"foreignkey:CustomerID" json:"customer,omitempty"`
	Payments []Payment `gorm:"foreignkey:BookingID" json:"payments,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// allowedStatusTransitions encodes the forward-only booking state flow.
var allowedStatusTransitions = map[string][]string{
	BookingStatusPendingPayment: {BookingStatusInProgress, BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusInProgress:     {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCompleted, BookingStatusCancelled},
}

func CanTransitionBooking(from, to string) bool {
	next, ok := allowedStatusTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func (b *Booking) IsPendingPayment() bool {
	return b.Status == BookingStatusPendingPayment
}

func IsDistanceService(serviceType string) bool {
	switch serviceType {
	case ServicePointToPoint, ServiceAirportPickup, ServiceAirportTransfer, ServiceRoundTrip:
		return true
	}
	return false
}

func IsHourlyService(serviceType string) bool {
	switch serviceType {
	case ServiceWedding, ServiceEvent, ServiceOther:
		return true
	}
	return false
}
