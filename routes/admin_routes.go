package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jadesdev/limo-drive/handlers"
	"github.com/jadesdev/limo-drive/middleware"
	ws "github.com/jadesdev/limo-drive/websocket"
)

type AdminHandlers struct {
	Bookings  *handlers.AdminBookingHandler
	Fleets    *handlers.FleetHandler
	Drivers   *handlers.DriverHandler
	Customers *handlers.CustomerHandler
	Payments  *handlers.PaymentHandler
}

func AdminRoutes(app *fiber.App, h AdminHandlers) {
	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())

	bookings := admin.Group("/bookings")
	bookings.Get("", h.Bookings.ListBookings)
	bookings.Get("/:id", h.Bookings.GetBooking)
	bookings.Patch("/:id", h.Bookings.UpdateBooking)
	bookings.Post("/:id/assign-driver", h.Bookings.AssignDriver)
	bookings.Post("/:id/status", h.Bookings.UpdateStatus)

	fleets := admin.Group("/fleets")
	fleets.Get("", h.Fleets.AdminListFleets)
	fleets.Post("", h.Fleets.CreateFleet)
	fleets.Patch("/:id", h.Fleets.UpdateFleet)
	fleets.Post("/:id/toggle", h.Fleets.ToggleFleet)
	fleets.Delete("/:id", h.Fleets.DeleteFleet)

	drivers := admin.Group("/drivers")
	drivers.Get("", h.Drivers.ListDrivers)
	drivers.Get("/:id", h.Drivers.GetDriver)
	drivers.Post("", h.Drivers.CreateDriver)
	drivers.Patch("/:id", h.Drivers.UpdateDriver)
	drivers.Delete("/:id", h.Drivers.DeleteDriver)

	customers := admin.Group("/customers")
	customers.Get("", h.Customers.ListCustomers)
	customers.Get("/:id", h.Customers.GetCustomer)
	customers.Patch("/:id", h.Customers.UpdateCustomer)

	payments := admin.Group("/payments")
	payments.Get("", h.Payments.ListPayments)
	payments.Get("/:id", h.Payments.GetPayment)
	payments.Get("/:id/receipt", h.Payments.DownloadReceipt)

	admin.Get("/uploads/signature", handlers.GenerateUploadSignature)

	// Live booking feed for the dashboard.
	app.Use("/api/v1/admin/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/v1/admin/live", websocket.New(func(conn *websocket.Conn) {
		client := &ws.Client{SessionID: uuid.New(), Conn: conn}
		ws.Register <- client
		defer func() {
			ws.Unregister <- client
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
