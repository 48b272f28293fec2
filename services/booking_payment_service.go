package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jadesdev/limo-drive/events"
	"github.com/jadesdev/limo-drive/models"
	"github.com/jadesdev/limo-drive/payments"
)

// BookingPaymentService drives online payment collection. Every path that
// learns of a successful charge, whether a client confirmation or a gateway
// webhook, funnels into the same idempotent settlement routine.
type BookingPaymentService struct {
	db         *gorm.DB
	gateways   map[string]payments.PaymentGateway
	dispatcher *events.Dispatcher
}

func NewBookingPaymentService(db *gorm.DB, dispatcher *events.Dispatcher, gateways ...payments.PaymentGateway) *BookingPaymentService {
	byName := make(map[string]payments.PaymentGateway, len(gateways))
	for _, g := range gateways {
		byName[g.Name()] = g
	}
	return &BookingPaymentService{db: db, gateways: byName, dispatcher: dispatcher}
}

func (s *BookingPaymentService) gateway(name string) (payments.PaymentGateway, error) {
	g, ok := s.gateways[name]
	if !ok {
		return nil, ErrUnsupportedPaymentMethod
	}
	return g, nil
}

// CreatePaymentIntent starts (or restarts) the gateway checkout for a booking
// still awaiting payment.
func (s *BookingPaymentService) CreatePaymentIntent(ctx context.Context, booking *models.Booking) (*payments.PaymentIntentInfo, error) {
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrPaymentMismatch
	}
	gateway, err := s.gateway(booking.PaymentMethod)
	if err != nil {
		return nil, err
	}
	return gateway.CreatePaymentIntent(ctx, booking)
}

// ConfirmPayment is the client-driven path: the frontend reports an intent as
// finished and we verify against the gateway before settling.
func (s *BookingPaymentService) ConfirmPayment(ctx context.Context, bookingID, intentID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.First(&booking, "id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	gateway, err := s.gateway(booking.PaymentMethod)
	if err != nil {
		return nil, err
	}

	result, err := gateway.ConfirmPayment(ctx, &booking, intentID)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		log.Printf("Payment confirmation rejected for booking %s: %s", booking.Code, result.Message)
		if result.Mismatch {
			return nil, ErrPaymentMismatch
		}
		return nil, ErrPaymentNotCompleted
	}

	if err := s.processSuccessfulPayment(result.Payment); err != nil {
		return nil, err
	}

	if err := s.db.Preload("Fleet").Preload("Customer").Preload("Payments").First(&booking, "id = ?", booking.ID).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ProcessWebhook settles a charge reported by a verified gateway webhook.
// The returned bool says whether a booking was actually transitioned. The
// payload is already signature-verified, so malformed payloads, unknown
// bookings and amount mismatches are logged and swallowed; retrying the
// delivery cannot fix them and a non-200 would have the gateway do exactly
// that. Only infrastructure failures surface as errors.
func (s *BookingPaymentService) ProcessWebhook(ctx context.Context, gatewayName string, payload []byte) (bool, error) {
	gateway, err := s.gateway(gatewayName)
	if err != nil {
		return false, err
	}

	data, err := gateway.ProcessWebhook(ctx, payload)
	if err != nil {
		log.Printf("Discarding unusable %s webhook payload: %v", gatewayName, err)
		return false, nil
	}
	if data == nil {
		return false, nil
	}

	if err := s.processSuccessfulPayment(data); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			log.Printf("Webhook for %s references unknown booking %s (intent %s)", gatewayName, data.BookingID, data.PaymentIntentID)
			return false, nil
		}
		if errors.Is(err, ErrPaymentMismatch) {
			log.Printf("Webhook for %s rejected on booking %s (intent %s): %v", gatewayName, data.BookingID, data.PaymentIntentID, err)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// processSuccessfulPayment is the single place a booking leaves
// pending_payment. It locks the booking row, skips bookings already settled
// (webhook replays, webhook racing the client confirmation), records the
// payment keyed by intent id and fires BookingConfirmed exactly once.
func (s *BookingPaymentService) processSuccessfulPayment(data *payments.PaymentData) error {
	bookingID, err := uuid.Parse(data.BookingID)
	if err != nil {
		return ErrBookingNotFound
	}

	var settled *models.Booking

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, "id = ?", bookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if !booking.IsPendingPayment() {
			log.Printf("Booking %s is already %s, skipping payment settlement", booking.Code, booking.Status)
			return nil
		}

		if data.Amount < booking.Price {
			log.Printf("Payment %s for booking %s is short: got %.2f, expected %.2f", data.PaymentIntentID, booking.Code, data.Amount, booking.Price)
			return ErrPaymentMismatch
		}

		err = tx.Model(&booking).Updates(map[string]interface{}{
			"status":         models.BookingStatusInProgress,
			"payment_status": models.PaymentStatusPaid,
		}).Error
		if err != nil {
			return err
		}

		payment := models.Payment{
			BookingID:       booking.ID,
			Code:            &booking.Code,
			GatewayName:     data.GatewayName,
			GatewayRef:      data.GatewayRef,
			PaymentIntentID: data.PaymentIntentID,
			Amount:          data.Amount,
			Currency:        data.Currency,
			Status:          "succeeded",
			GatewayPayload:  data.GatewayPayload,
		}
		if booking.CustomerID != nil {
			var customer models.Customer
			if err := tx.First(&customer, "id = ?", booking.CustomerID).Error; err == nil {
				name := customer.FullName()
				payment.CustomerName = &name
				payment.CustomerEmail = &customer.Email
				// Listeners need the relation to email the customer.
				booking.Customer = &customer
			}
		}
		if booking.FleetID != nil {
			var fleet models.Fleet
			if err := tx.First(&fleet, "id = ?", booking.FleetID).Error; err == nil {
				booking.Fleet = &fleet
			}
		}

		err = tx.Where(models.Payment{PaymentIntentID: data.PaymentIntentID}).
			Assign(map[string]interface{}{
				"booking_id":      payment.BookingID,
				"code":            payment.Code,
				"customer_name":   payment.CustomerName,
				"customer_email":  payment.CustomerEmail,
				"gateway_name":    payment.GatewayName,
				"gateway_ref":     payment.GatewayRef,
				"amount":          payment.Amount,
				"currency":        payment.Currency,
				"status":          payment.Status,
				"gateway_payload": payment.GatewayPayload,
			}).
			FirstOrCreate(&models.Payment{}).Error
		if err != nil {
			return err
		}

		booking.Status = models.BookingStatusInProgress
		booking.PaymentStatus = models.PaymentStatusPaid
		settled = &booking
		return nil
	})
	if err != nil {
		return err
	}

	// Only the transaction that performed the transition announces it.
	if settled != nil {
		s.dispatcher.Dispatch(events.BookingConfirmed{Booking: settled})
	}
	return nil
}
