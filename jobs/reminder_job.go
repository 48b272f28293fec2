package jobs

import (
	"log"
	"time"

	"github.com/jadesdev/limo-drive/database"
	"github.com/jadesdev/limo-drive/models"
	"github.com/jadesdev/limo-drive/notifications"
)

// SendTripReminders emails customers and drivers about trips picking up in
// roughly 24 hours. The window matches the hourly cron cadence so each trip
// is reminded once.
func SendTripReminders() {
	log.Println("Running job: SendTripReminders...")

	now := time.Now()
	lowerBound := now.Add(24 * time.Hour)
	upperBound := now.Add(25 * time.Hour)

	var upcomingBookings []models.Booking
	err := database.DB.
		Preload("Customer").
		Preload("Driver").
		Where("status IN ? AND pickup_datetime BETWEEN ? AND ?",
			[]string{models.BookingStatusConfirmed, models.BookingStatusInProgress}, lowerBound, upperBound).
		Find(&upcomingBookings).Error
	if err != nil {
		log.Printf("Error checking for upcoming trips: %v", err)
		return
	}

	for i := range upcomingBookings {
		booking := upcomingBookings[i]
		log.Printf("Sending trip reminder for booking %s", booking.Code)
		go notifications.SendTripReminder(&booking)
	}
}
