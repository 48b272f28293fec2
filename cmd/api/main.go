package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"googlemaps.github.io/maps"

	"github.com/jadesdev/limo-drive/cache"
	config "github.com/jadesdev/limo-drive/configs"
	"github.com/jadesdev/limo-drive/database"
	"github.com/jadesdev/limo-drive/events"
	"github.com/jadesdev/limo-drive/handlers"
	"github.com/jadesdev/limo-drive/jobs"
	"github.com/jadesdev/limo-drive/notifications"
	"github.com/jadesdev/limo-drive/payments"
	"github.com/jadesdev/limo-drive/routes"
	"github.com/jadesdev/limo-drive/services"
	"github.com/jadesdev/limo-drive/websocket"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	database.SeedFleets()
	cache.Connect()
	notifications.InitEmailService()

	dispatcher := events.NewDispatcher()
	notifications.RegisterBookingListeners(dispatcher)
	websocket.RegisterEventFeed(dispatcher)
	go websocket.RunHub()

	demoMode := config.ConfigBool("ROUTE_DEMO_MODE", true)
	var mapsClient *maps.Client
	if !demoMode {
		var err error
		mapsClient, err = services.NewMapsClient(config.Config("GOOGLE_MAPS_API_KEY"))
		if err != nil {
			log.Fatalf("🔥 Failed to initialize Google Maps client: %v", err)
		}
	}
	routeService := services.NewRouteService(demoMode, mapsClient, cache.Client)

	customerService := services.NewCustomerService(database.DB)
	bookingService := services.NewBookingService(database.DB, routeService, customerService, dispatcher)

	stripeGateway := payments.NewStripeGateway(
		config.Config("STRIPE_SECRET_KEY"),
		config.Config("STRIPE_WEBHOOK_SECRET"),
	)
	paypalService := payments.NewPayPalService(payments.PayPalConfig{
		BaseURL:      config.ConfigOr("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		ClientID:     config.Config("PAYPAL_CLIENT_ID"),
		ClientSecret: config.Config("PAYPAL_CLIENT_SECRET"),
		WebhookID:    config.Config("PAYPAL_WEBHOOK_ID"),
		ReturnURL:    config.Config("PAYPAL_RETURN_URL"),
		CancelURL:    config.Config("PAYPAL_CANCEL_URL"),
	}, cache.Client)
	paypalGateway := payments.NewPayPalGateway(paypalService)

	paymentService := services.NewBookingPaymentService(database.DB, dispatcher, stripeGateway, paypalGateway)
	receiptService := services.NewReceiptService()

	bookingHandler := handlers.NewBookingHandler(bookingService, paymentService)
	webhookHandler := handlers.NewWebhookHandler(paymentService, stripeGateway, paypalGateway)
	fleetHandler := handlers.NewFleetHandler(database.DB)
	authHandler := handlers.NewAuthHandler(database.DB)

	c := cron.New()
	c.AddFunc("0 * * * *", jobs.SendTripReminders)
	go c.Start()
	log.Println("✅ Trip reminder job scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "Limo Drive",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Stripe-Signature, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Limo Drive API",
		})
	})

	routes.FleetRoutes(app, fleetHandler)
	routes.BookingRoutes(app, bookingHandler)
	routes.WebhookRoutes(app, webhookHandler)
	routes.AuthRoutes(app, authHandler)
	routes.AdminRoutes(app, routes.AdminHandlers{
		Bookings:  handlers.NewAdminBookingHandler(bookingService),
		Fleets:    fleetHandler,
		Drivers:   handlers.NewDriverHandler(database.DB),
		Customers: handlers.NewCustomerHandler(database.DB),
		Payments:  handlers.NewPaymentHandler(database.DB, receiptService),
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.ConfigOr("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
