package notifications

import (
	"fmt"

	"github.com/jadesdev/limo-drive/events"
	"github.com/jadesdev/limo-drive/models"
)

// RegisterBookingListeners wires booking lifecycle events to outbound email.
// Sends are best-effort; the dispatcher already runs listeners off the
// request path.
func RegisterBookingListeners(dispatcher *events.Dispatcher) {
	dispatcher.Subscribe(func(e events.Event) {
		switch event := e.(type) {
		case events.BookingConfirmed:
			sendBookingConfirmed(event.Booking)
		case events.DriverAssigned:
			sendDriverAssigned(event.Booking, event.Driver)
		case events.TripCompleted:
			sendTripCompleted(event.Booking)
		}
	})
}

func sendBookingConfirmed(booking *models.Booking) {
	if booking.Customer != nil {
		SendEmail(
			booking.Customer.FullName(),
			booking.Customer.Email,
			fmt.Sprintf("Your booking %s is confirmed", booking.Code),
			bookingConfirmedHTML(booking),
		)
	}
	SendAdminEmail(
		fmt.Sprintf("New confirmed booking %s", booking.Code),
		adminBookingHTML(booking),
	)
}

func sendDriverAssigned(booking *models.Booking, driver *models.Driver) {
	SendEmail(
		driver.FullName(),
		driver.Email,
		fmt.Sprintf("New trip assignment %s", booking.Code),
		driverAssignmentHTML(booking, driver),
	)
	if booking.Customer != nil {
		SendEmail(
			booking.Customer.FullName(),
			booking.Customer.Email,
			fmt.Sprintf("Your chauffeur for booking %s", booking.Code),
			customerDriverHTML(booking, driver),
		)
	}
}

func sendTripCompleted(booking *models.Booking) {
	if booking.Customer == nil {
		return
	}
	SendEmail(
		booking.Customer.FullName(),
		booking.Customer.Email,
		fmt.Sprintf("Thanks for riding with us, booking %s completed", booking.Code),
		tripCompletedHTML(booking),
	)
}

func bookingConfirmedHTML(booking *models.Booking) string {
	dropoff := ""
	if booking.DropoffAddress != nil {
		dropoff = fmt.Sprintf("<p><strong>Dropoff:</strong> %s</p>", *booking.DropoffAddress)
	}
	return fmt.Sprintf(`
		<h2>Booking Confirmed</h2>
		<p>Your reservation <strong>%s</strong> is confirmed.</p>
		<p><strong>Pickup:</strong> %s</p>
		%s
		<p><strong>Pickup time:</strong> %s</p>
		<p><strong>Total:</strong> $%.2f</p>
		<p>We will notify you once a chauffeur is assigned.</p>`,
		booking.Code,
		booking.PickupAddress,
		dropoff,
		booking.PickupDatetime.Format("Mon, 02 Jan 2006 at 3:04 PM"),
		booking.Price,
	)
}

func adminBookingHTML(booking *models.Booking) string {
	customer := "guest"
	if booking.Customer != nil {
		customer = fmt.Sprintf("%s (%s)", booking.Customer.FullName(), booking.Customer.Email)
	}
	return fmt.Sprintf(`
		<h2>New Booking %s</h2>
		<p><strong>Customer:</strong> %s</p>
		<p><strong>Service:</strong> %s</p>
		<p><strong>Pickup:</strong> %s at %s</p>
		<p><strong>Total:</strong> $%.2f (%s)</p>`,
		booking.Code,
		customer,
		booking.ServiceType,
		booking.PickupAddress,
		booking.PickupDatetime.Format("Mon, 02 Jan 2006 3:04 PM"),
		booking.Price,
		booking.PaymentMethod,
	)
}

func driverAssignmentHTML(booking *models.Booking, driver *models.Driver) string {
	return fmt.Sprintf(`
		<h2>New Trip Assignment</h2>
		<p>Hi %s, you have been assigned booking <strong>%s</strong>.</p>
		<p><strong>Pickup:</strong> %s</p>
		<p><strong>Pickup time:</strong> %s</p>
		<p><strong>Passengers:</strong> %d</p>`,
		driver.FirstName,
		booking.Code,
		booking.PickupAddress,
		booking.PickupDatetime.Format("Mon, 02 Jan 2006 at 3:04 PM"),
		booking.PassengerCount,
	)
}

func customerDriverHTML(booking *models.Booking, driver *models.Driver) string {
	return fmt.Sprintf(`
		<h2>Your Chauffeur Is Assigned</h2>
		<p><strong>%s</strong> will handle your booking <strong>%s</strong>.</p>
		<p>Contact: %s</p>`,
		driver.FullName(),
		booking.Code,
		driver.Phone,
	)
}

func tripCompletedHTML(booking *models.Booking) string {
	return fmt.Sprintf(`
		<h2>Trip Completed</h2>
		<p>Your trip <strong>%s</strong> is complete. We hope you enjoyed the ride.</p>
		<p>We would love to see you again.</p>`,
		booking.Code,
	)
}

// SendTripReminder is used by the scheduled reminder job for trips starting
// soon.
func SendTripReminder(booking *models.Booking) {
	if booking.Customer != nil {
		SendEmail(
			booking.Customer.FullName(),
			booking.Customer.Email,
			fmt.Sprintf("Reminder: your trip %s is coming up", booking.Code),
			fmt.Sprintf(`
				<h2>Upcoming Trip</h2>
				<p>This is a reminder for booking <strong>%s</strong>.</p>
				<p><strong>Pickup:</strong> %s at %s</p>`,
				booking.Code,
				booking.PickupAddress,
				booking.PickupDatetime.Format("Mon, 02 Jan 2006 at 3:04 PM"),
			),
		)
	}
	if booking.Driver != nil {
		SendEmail(
			booking.Driver.FullName(),
			booking.Driver.Email,
			fmt.Sprintf("Reminder: trip %s is coming up", booking.Code),
			fmt.Sprintf(`
				<h2>Upcoming Assignment</h2>
				<p>Booking <strong>%s</strong> picks up at %s, %s.</p>`,
				booking.Code,
				booking.PickupDatetime.Format("3:04 PM"),
				booking.PickupAddress,
			),
		)
	}
}
