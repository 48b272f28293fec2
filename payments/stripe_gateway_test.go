package payments

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesdev/limo-drive/models"
)

func TestStripeProcessWebhookExtractsPaymentData(t *testing.T) {
	gateway := NewStripeGateway("sk_test_xxx", "whsec_xxx")

	bookingID := uuid.New()
	payload, _ := json.Marshal(map[string]interface{}{
		"id":       "pi_123",
		"amount":   14000,
		"currency": "usd",
		"status":   "succeeded",
		"metadata": map[string]string{
			"booking_id":   bookingID.String(),
			"booking_code": "BK-ABC123XYZ",
		},
	})

	data, err := gateway.ProcessWebhook(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, bookingID.String(), data.BookingID)
	assert.Equal(t, "pi_123", data.PaymentIntentID)
	assert.Equal(t, "pi_123", data.GatewayRef)
	assert.Equal(t, 140.00, data.Amount)
	assert.Equal(t, "USD", data.Currency)
	assert.Equal(t, models.PaymentMethodStripe, data.GatewayName)
}

func TestStripeProcessWebhookIgnoresUnsettledIntent(t *testing.T) {
	gateway := NewStripeGateway("sk_test_xxx", "whsec_xxx")

	payload := []byte(`{"id":"pi_456","status":"requires_payment_method","metadata":{"booking_id":"abc"}}`)
	data, err := gateway.ProcessWebhook(context.Background(), payload)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestStripeProcessWebhookRequiresBookingID(t *testing.T) {
	gateway := NewStripeGateway("sk_test_xxx", "whsec_xxx")

	payload := []byte(`{"id":"pi_789","amount":5000,"currency":"usd","status":"succeeded","metadata":{}}`)
	_, err := gateway.ProcessWebhook(context.Background(), payload)
	assert.Error(t, err)
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, int64(14000), toCents(140.00))
	assert.Equal(t, int64(27550), toCents(275.50))
	// float noise must not lose a cent
	assert.Equal(t, int64(1010), toCents(10.10))

	assert.Equal(t, 140.00, fromCents(14000))
	assert.Equal(t, 0.01, fromCents(1))
}

func TestStripeVerifyWebhookRejectsBadSignature(t *testing.T) {
	gateway := NewStripeGateway("sk_test_xxx", "whsec_secret")

	_, err := gateway.VerifyWebhook([]byte(`{}`), "t=123,v1=deadbeef")
	assert.Error(t, err)
}
