package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jadesdev/limo-drive/models"
)

func TestDispatchFansOutToAllListeners(t *testing.T) {
	dispatcher := NewDispatcher()

	first := make(chan string, 1)
	second := make(chan string, 1)
	dispatcher.Subscribe(func(e Event) { first <- e.Name() })
	dispatcher.Subscribe(func(e Event) { second <- e.Name() })

	dispatcher.Dispatch(BookingConfirmed{Booking: &models.Booking{Code: "BK-TEST00001"}})

	for _, ch := range []chan string{first, second} {
		select {
		case name := <-ch:
			assert.Equal(t, "booking.confirmed", name)
		case <-time.After(time.Second):
			t.Fatal("listener did not receive the event")
		}
	}
}

func TestDispatchWithoutListeners(t *testing.T) {
	dispatcher := NewDispatcher()
	// must not panic or block
	dispatcher.Dispatch(TripCompleted{Booking: &models.Booking{}})
}
