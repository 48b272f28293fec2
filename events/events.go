package events

import (
	"sync"

	"github.com/jadesdev/limo-drive/models"
)

type Event interface {
	Name() string
}

// BookingConfirmed fires exactly once per booking, either at creation for cash
// bookings or on the first successful payment transition.
type BookingConfirmed struct {
	Booking *models.Booking
}

func (BookingConfirmed) Name() string { return "booking.confirmed" }

type DriverAssigned struct {
	Booking *models.Booking
	Driver  *models.Driver
}

func (DriverAssigned) Name() string { return "booking.driver_assigned" }

type TripCompleted struct {
	Booking *models.Booking
}

func (TripCompleted) Name() string { return "booking.trip_completed" }

type Listener func(Event)

// Dispatcher fans events out to registered listeners. Delivery is
// fire-and-forget; listeners own their error handling.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Subscribe(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

func (d *Dispatcher) Dispatch(e Event) {
	d.mu.RLock()
	listeners := make([]Listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, l := range listeners {
		go l(e)
	}
}
