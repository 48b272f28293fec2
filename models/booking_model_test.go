package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionBooking(t *testing.T) {
	// forward moves
	assert.True(t, CanTransitionBooking(BookingStatusPendingPayment, BookingStatusInProgress))
	assert.True(t, CanTransitionBooking(BookingStatusPendingPayment, BookingStatusConfirmed))
	assert.True(t, CanTransitionBooking(BookingStatusPendingPayment, BookingStatusCancelled))
	assert.True(t, CanTransitionBooking(BookingStatusConfirmed, BookingStatusCompleted))
	assert.True(t, CanTransitionBooking(BookingStatusInProgress, BookingStatusCompleted))
	assert.True(t, CanTransitionBooking(BookingStatusInProgress, BookingStatusCancelled))

	// terminal states never move
	assert.False(t, CanTransitionBooking(BookingStatusCompleted, BookingStatusCancelled))
	assert.False(t, CanTransitionBooking(BookingStatusCancelled, BookingStatusConfirmed))

	// no going backwards
	assert.False(t, CanTransitionBooking(BookingStatusInProgress, BookingStatusPendingPayment))
	assert.False(t, CanTransitionBooking(BookingStatusConfirmed, BookingStatusPendingPayment))

	assert.False(t, CanTransitionBooking("unknown", BookingStatusConfirmed))
}

func TestServiceTypeClassification(t *testing.T) {
	for _, st := range []string{ServicePointToPoint, ServiceAirportPickup, ServiceAirportTransfer, ServiceRoundTrip} {
		assert.True(t, IsDistanceService(st), st)
		assert.False(t, IsHourlyService(st), st)
	}
	for _, st := range []string{ServiceWedding, ServiceEvent, ServiceOther} {
		assert.True(t, IsHourlyService(st), st)
		assert.False(t, IsDistanceService(st), st)
	}
	assert.False(t, IsDistanceService("submarine"))
	assert.False(t, IsHourlyService(""))
}
