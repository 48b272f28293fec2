package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesdev/limo-drive/events"
	"github.com/jadesdev/limo-drive/models"
	"github.com/jadesdev/limo-drive/payments"
)

type stubGateway struct {
	name    string
	data    *payments.PaymentData
	err     error
	confirm *payments.ConfirmResult
}

func (s stubGateway) Name() string { return s.name }

func (s stubGateway) CreatePaymentIntent(ctx context.Context, booking *models.Booking) (*payments.PaymentIntentInfo, error) {
	return &payments.PaymentIntentInfo{IntentID: "pi_stub", Gateway: s.name, Amount: booking.Price}, nil
}

func (s stubGateway) ConfirmPayment(ctx context.Context, booking *models.Booking, intentID string) (*payments.ConfirmResult, error) {
	if s.confirm != nil {
		return s.confirm, nil
	}
	return &payments.ConfirmResult{Success: true, Payment: s.data}, nil
}

func (s stubGateway) ProcessWebhook(ctx context.Context, payload []byte) (*payments.PaymentData, error) {
	return s.data, s.err
}

func bookingColumns() []string {
	return []string{"id", "code", "status", "payment_status", "price", "payment_method", "customer_id"}
}

func paymentData(bookingID uuid.UUID, amount float64) *payments.PaymentData {
	return &payments.PaymentData{
		BookingID:       bookingID.String(),
		PaymentIntentID: "pi_123",
		Amount:          amount,
		Currency:        "USD",
		PaymentMethod:   models.PaymentMethodStripe,
		GatewayName:     models.PaymentMethodStripe,
		GatewayRef:      "pi_123",
	}
}

func subscribeConfirmed(dispatcher *events.Dispatcher) chan *models.Booking {
	confirmed := make(chan *models.Booking, 1)
	dispatcher.Subscribe(func(e events.Event) {
		if ev, ok := e.(events.BookingConfirmed); ok {
			confirmed <- ev.Booking
		}
	})
	return confirmed
}

func TestProcessWebhookSettlesPendingBooking(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := events.NewDispatcher()
	confirmed := subscribeConfirmed(dispatcher)

	bookingID := uuid.New()
	gateway := stubGateway{name: models.PaymentMethodStripe, data: paymentData(bookingID, 140.00)}
	svc := NewBookingPaymentService(db, dispatcher, gateway)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, "BK-AAA111BBB", models.BookingStatusPendingPayment, models.PaymentStatusUnpaid, 140.00, models.PaymentMethodStripe, nil))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, processed)

	select {
	case booking := <-confirmed:
		assert.Equal(t, models.BookingStatusInProgress, booking.Status)
		assert.Equal(t, models.PaymentStatusPaid, booking.PaymentStatus)
	case <-time.After(time.Second):
		t.Fatal("expected a BookingConfirmed event")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookSettlementEventCarriesCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := events.NewDispatcher()
	confirmed := subscribeConfirmed(dispatcher)

	bookingID := uuid.New()
	customerID := uuid.New()
	gateway := stubGateway{name: models.PaymentMethodStripe, data: paymentData(bookingID, 140.00)}
	svc := NewBookingPaymentService(db, dispatcher, gateway)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, "BK-AAA111BBB", models.BookingStatusPendingPayment, models.PaymentStatusUnpaid, 140.00, models.PaymentMethodStripe, customerID))
	mock.ExpectExec(`UPDATE "bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email"}).
			AddRow(customerID, "Ada", "Obi", "ada@example.com"))
	mock.ExpectQuery(`SELECT \* FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, processed)

	select {
	case booking := <-confirmed:
		require.NotNil(t, booking.Customer, "listeners email the customer off the event payload")
		assert.Equal(t, "ada@example.com", booking.Customer.Email)
	case <-time.After(time.Second):
		t.Fatal("expected a BookingConfirmed event")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookReplayIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := events.NewDispatcher()
	confirmed := subscribeConfirmed(dispatcher)

	bookingID := uuid.New()
	gateway := stubGateway{name: models.PaymentMethodStripe, data: paymentData(bookingID, 140.00)}
	svc := NewBookingPaymentService(db, dispatcher, gateway)

	// already settled by an earlier delivery
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, "BK-AAA111BBB", models.BookingStatusInProgress, models.PaymentStatusPaid, 140.00, models.PaymentMethodStripe, nil))
	mock.ExpectCommit()

	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, processed)

	select {
	case <-confirmed:
		t.Fatal("replayed webhook must not fire a second BookingConfirmed event")
	case <-time.After(100 * time.Millisecond):
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookUnknownBookingIsAcknowledged(t *testing.T) {
	db, mock := newMockDB(t)

	gateway := stubGateway{name: models.PaymentMethodStripe, data: paymentData(uuid.New(), 140.00)}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))
	mock.ExpectRollback()

	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookIgnoresUnactionableEvents(t *testing.T) {
	db, mock := newMockDB(t)

	gateway := stubGateway{name: models.PaymentMethodStripe, data: nil}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookUnderpaymentIsAcknowledged(t *testing.T) {
	db, mock := newMockDB(t)
	dispatcher := events.NewDispatcher()
	confirmed := subscribeConfirmed(dispatcher)

	bookingID := uuid.New()
	gateway := stubGateway{name: models.PaymentMethodStripe, data: paymentData(bookingID, 5.00)}
	svc := NewBookingPaymentService(db, dispatcher, gateway)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, "BK-AAA111BBB", models.BookingStatusPendingPayment, models.PaymentStatusUnpaid, 140.00, models.PaymentMethodStripe, nil))
	mock.ExpectRollback()

	// logged and acknowledged; a retry of the same short capture cannot succeed
	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, processed)

	select {
	case <-confirmed:
		t.Fatal("an underpaying capture must not confirm the booking")
	case <-time.After(100 * time.Millisecond):
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookUnusablePayloadIsAcknowledged(t *testing.T) {
	db, mock := newMockDB(t)

	gateway := stubGateway{name: models.PaymentMethodStripe, err: errors.New("stripe payment intent pi_1 carries no booking id")}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	processed, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{"id":"pi_1"}`))
	require.NoError(t, err)
	assert.False(t, processed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookInfrastructureFailureSurfaces(t *testing.T) {
	db, mock := newMockDB(t)

	bookingID := uuid.New()
	gateway := stubGateway{name: models.PaymentMethodStripe, data: paymentData(bookingID, 140.00)}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "bookings".*FOR UPDATE`).
		WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	_, err := svc.ProcessWebhook(context.Background(), models.PaymentMethodStripe, []byte(`{}`))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookUnknownGateway(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewBookingPaymentService(db, events.NewDispatcher())

	_, err := svc.ProcessWebhook(context.Background(), "square", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnsupportedPaymentMethod)
}

func TestConfirmPaymentMismatchedIntent(t *testing.T) {
	db, mock := newMockDB(t)

	bookingID := uuid.New()
	gateway := stubGateway{
		name:    models.PaymentMethodStripe,
		confirm: &payments.ConfirmResult{Success: false, Mismatch: true, Message: "payment intent does not belong to this booking"},
	}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, "BK-AAA111BBB", models.BookingStatusPendingPayment, models.PaymentStatusUnpaid, 140.00, models.PaymentMethodStripe, nil))

	_, err := svc.ConfirmPayment(context.Background(), bookingID.String(), "pi_other")
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentIncompleteIntent(t *testing.T) {
	db, mock := newMockDB(t)

	bookingID := uuid.New()
	gateway := stubGateway{
		name:    models.PaymentMethodStripe,
		confirm: &payments.ConfirmResult{Success: false, Message: "payment has not been completed yet"},
	}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	mock.ExpectQuery(`SELECT \* FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(bookingID, "BK-AAA111BBB", models.BookingStatusPendingPayment, models.PaymentStatusUnpaid, 140.00, models.PaymentMethodStripe, nil))

	_, err := svc.ConfirmPayment(context.Background(), bookingID.String(), "pi_123")
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentIntentRejectsPaidBooking(t *testing.T) {
	db, _ := newMockDB(t)
	gateway := stubGateway{name: models.PaymentMethodStripe}
	svc := NewBookingPaymentService(db, events.NewDispatcher(), gateway)

	booking := &models.Booking{PaymentStatus: models.PaymentStatusPaid, PaymentMethod: models.PaymentMethodStripe}
	_, err := svc.CreatePaymentIntent(context.Background(), booking)
	assert.ErrorIs(t, err, ErrPaymentMismatch)
}
