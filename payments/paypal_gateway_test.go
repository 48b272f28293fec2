package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesdev/limo-drive/models"
)

func TestProcessWebhookCaptureCompleted(t *testing.T) {
	gateway := NewPayPalGateway(newTestPayPalService(t, "http://unused.invalid", nil))

	bookingID := uuid.New()
	payload, _ := json.Marshal(map[string]interface{}{
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": map[string]interface{}{
			"id":        "CAP-1",
			"status":    "COMPLETED",
			"custom_id": bookingID.String(),
			"amount":    map[string]string{"currency_code": "USD", "value": "140.00"},
			"supplementary_data": map[string]interface{}{
				"related_ids": map[string]string{"order_id": "ORDER-7"},
			},
		},
	})

	data, err := gateway.ProcessWebhook(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, bookingID.String(), data.BookingID)
	assert.Equal(t, "ORDER-7", data.PaymentIntentID)
	assert.Equal(t, "CAP-1", data.GatewayRef)
	assert.Equal(t, 140.00, data.Amount)
	assert.Equal(t, "USD", data.Currency)
	assert.Equal(t, models.PaymentMethodPayPal, data.GatewayName)
}

func TestProcessWebhookCaptureWithoutBookingID(t *testing.T) {
	gateway := NewPayPalGateway(newTestPayPalService(t, "http://unused.invalid", nil))

	payload := []byte(`{"event_type":"PAYMENT.CAPTURE.COMPLETED","resource":{"id":"CAP-2","status":"COMPLETED"}}`)
	_, err := gateway.ProcessWebhook(context.Background(), payload)
	assert.Error(t, err)
}

func TestProcessWebhookIgnoresUnrelatedEvents(t *testing.T) {
	gateway := NewPayPalGateway(newTestPayPalService(t, "http://unused.invalid", nil))

	data, err := gateway.ProcessWebhook(context.Background(), []byte(`{"event_type":"BILLING.PLAN.CREATED","resource":{}}`))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestProcessWebhookOrderApprovedCaptures(t *testing.T) {
	var tokenCalls int32
	bookingID := uuid.New()
	var capturedPath string

	server := paypalTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-5",
			"status": "COMPLETED",
			"purchase_units": []map[string]interface{}{{
				"custom_id":  bookingID.String(),
				"invoice_id": "BK-ABC123XYZ",
				"amount":     map[string]string{"currency_code": "USD", "value": "275.50"},
			}},
		})
	})

	gateway := NewPayPalGateway(newTestPayPalService(t, server.URL, nil))

	payload, _ := json.Marshal(map[string]interface{}{
		"event_type": "CHECKOUT.ORDER.APPROVED",
		"resource": map[string]interface{}{
			"id":     "ORDER-5",
			"status": "APPROVED",
			"purchase_units": []map[string]interface{}{{
				"custom_id": bookingID.String(),
			}},
		},
	})

	data, err := gateway.ProcessWebhook(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "/v2/checkout/orders/ORDER-5/capture", capturedPath)
	assert.Equal(t, bookingID.String(), data.BookingID)
	assert.Equal(t, "ORDER-5", data.PaymentIntentID)
	assert.Equal(t, 275.50, data.Amount)
}

func TestConfirmPaymentRejectsForeignOrder(t *testing.T) {
	var tokenCalls int32
	server := paypalTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-3",
			"status": "COMPLETED",
			"purchase_units": []map[string]interface{}{{
				"custom_id":  uuid.New().String(),
				"invoice_id": "BK-OTHERONE1",
				"amount":     map[string]string{"currency_code": "USD", "value": "99.00"},
			}},
		})
	})

	gateway := NewPayPalGateway(newTestPayPalService(t, server.URL, nil))
	booking := &models.Booking{ID: uuid.New(), Code: "BK-MINE12345", Price: 99.00}

	result, err := gateway.ConfirmPayment(context.Background(), booking, "ORDER-3")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.True(t, result.Mismatch)
}
