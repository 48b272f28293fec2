package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/jadesdev/limo-drive/events"
	"github.com/jadesdev/limo-drive/models"
)

// Client is one connected admin dashboard session.
type Client struct {
	SessionID uuid.UUID
	Conn      *websocket.Conn
}

// BookingUpdate is pushed to every connected admin when a booking changes.
type BookingUpdate struct {
	Event   string          `json:"event"`
	Booking *models.Booking `json:"booking"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *BookingUpdate)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Admin client registered: %s", client.SessionID)
			clientsMu.Lock()
			clients[client.SessionID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Admin client unregistered: %s", client.SessionID)
			clientsMu.Lock()
			if conn, ok := clients[client.SessionID]; ok && conn == client.Conn {
				delete(clients, client.SessionID)
			}
			clientsMu.Unlock()
		case update := <-Broadcast:
			clientsMu.RLock()
			var stale []uuid.UUID
			for sessionID, conn := range clients {
				if err := conn.WriteJSON(update); err != nil {
					log.Printf("Error pushing update to admin client %s: %v", sessionID, err)
					conn.Close()
					stale = append(stale, sessionID)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, sessionID := range stale {
					delete(clients, sessionID)
				}
				clientsMu.Unlock()
			}
		}
	}
}

// RegisterEventFeed mirrors booking lifecycle events into the admin feed.
func RegisterEventFeed(dispatcher *events.Dispatcher) {
	dispatcher.Subscribe(func(e events.Event) {
		var update *BookingUpdate
		switch event := e.(type) {
		case events.BookingConfirmed:
			update = &BookingUpdate{Event: event.Name(), Booking: event.Booking}
		case events.DriverAssigned:
			update = &BookingUpdate{Event: event.Name(), Booking: event.Booking}
		case events.TripCompleted:
			update = &BookingUpdate{Event: event.Name(), Booking: event.Booking}
		}
		if update != nil {
			Broadcast <- update
		}
	})
}
