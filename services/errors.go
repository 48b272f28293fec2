package services

import "errors"

// ValidationError carries a field-level message surfaced to the caller as a
// 4xx response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrUnsupportedServiceType = &ValidationError{Field: "service_type", Message: "The selected service type is not supported for quoting."}
	ErrDurationRequired       = &ValidationError{Field: "duration_hours", Message: "Booking duration is required for this service type."}
	ErrNoCapacityAvailable    = &ValidationError{Field: "capacity", Message: "Sorry, we have no vehicles available that can accommodate your party size."}
	ErrFleetNotAvailable      = &ValidationError{Field: "fleet_id", Message: "The selected vehicle is not available for the specified requirements."}

	// Route failures keep distinct user-readable causes.
	ErrNoRouteFound     = &ValidationError{Field: "route", Message: "Could not find a valid route between the specified locations. Please check the addresses."}
	ErrLocationNotFound = &ValidationError{Field: "route", Message: "One or both of the specified locations could not be found."}
	ErrRouteUnavailable = errors.New("we could not calculate the route at this time, please try again later")

	ErrBookingNotFound          = errors.New("booking not found")
	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrPaymentMismatch          = errors.New("payment does not match this booking")
	ErrPaymentNotCompleted      = errors.New("payment has not been completed yet")
	ErrInvalidStatusTransition  = errors.New("invalid booking status transition")
)
