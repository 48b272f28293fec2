package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadesdev/limo-drive/models"
)

func paypalTestServer(t *testing.T, tokenCalls *int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	if handler != nil {
		mux.HandleFunc("/", handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestPayPalService(t *testing.T, baseURL string, cache *redis.Client) *PayPalService {
	t.Helper()
	return NewPayPalService(PayPalConfig{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		WebhookID:    "wh-1",
	}, cache)
}

func TestAccessTokenIsCachedAcrossRequests(t *testing.T) {
	var tokenCalls int32
	server := paypalTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ORDER-1", "status": "CREATED"})
	})

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := newTestPayPalService(t, server.URL, cache)

	_, err := svc.GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)
	_, err = svc.GetOrder(context.Background(), "ORDER-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))

	// cached with a margin below the reported hour lifetime
	ttl := mr.TTL(paypalTokenCacheKey)
	assert.Greater(t, ttl, 50*time.Minute)
	assert.LessOrEqual(t, ttl, 55*time.Minute)
}

func TestCreateOrderBindsBooking(t *testing.T) {
	var tokenCalls int32
	var captured map[string]interface{}
	server := paypalTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER-9",
			"status": "CREATED",
			"links": []map[string]string{
				{"href": "https://paypal.example/approve", "rel": "approve"},
			},
		})
	})

	svc := newTestPayPalService(t, server.URL, nil)
	booking := &models.Booking{
		ID:    uuid.New(),
		Code:  "BK-XYZ123ABC",
		Price: 275.50,
	}

	order, err := svc.CreateOrder(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, "ORDER-9", order.ID)
	assert.Equal(t, "https://paypal.example/approve", order.ApprovalURL())

	assert.Equal(t, "CAPTURE", captured["intent"])
	units := captured["purchase_units"].([]interface{})
	require.Len(t, units, 1)
	unit := units[0].(map[string]interface{})
	assert.Equal(t, booking.ID.String(), unit["custom_id"])
	assert.Equal(t, booking.Code, unit["invoice_id"])
	amount := unit["amount"].(map[string]interface{})
	assert.Equal(t, "275.50", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])
}

func TestVerifyWebhookSignature(t *testing.T) {
	var tokenCalls int32
	server := paypalTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "wh-1", body["webhook_id"])
		assert.Equal(t, "tid-1", body["transmission_id"])

		status := "FAILURE"
		if body["transmission_sig"] == "good-sig" {
			status = "SUCCESS"
		}
		json.NewEncoder(w).Encode(map[string]string{"verification_status": status})
	})

	svc := newTestPayPalService(t, server.URL, nil)
	headers := map[string]string{
		"Paypal-Transmission-Id":  "tid-1",
		"Paypal-Transmission-Sig": "good-sig",
	}

	ok, err := svc.VerifyWebhookSignature(context.Background(), headers, []byte(`{"event_type":"TEST"}`))
	require.NoError(t, err)
	assert.True(t, ok)

	headers["Paypal-Transmission-Sig"] = "bad-sig"
	ok, err = svc.VerifyWebhookSignature(context.Background(), headers, []byte(`{"event_type":"TEST"}`))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderRequestSurfacesAPIErrors(t *testing.T) {
	var tokenCalls int32
	server := paypalTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
	})

	svc := newTestPayPalService(t, server.URL, nil)
	_, err := svc.GetOrder(context.Background(), "ORDER-X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
