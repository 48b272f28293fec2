package payments

import (
	"context"
	"encoding/json"

	"github.com/jadesdev/limo-drive/models"
)

// PaymentData is the gateway-neutral record of a successful charge, used to
// move a booking out of pending_payment and upsert its payment row.
type PaymentData struct {
	BookingID       string
	PaymentIntentID string
	Amount          float64
	Currency        string
	PaymentMethod   string
	GatewayName     string
	GatewayRef      string
	GatewayPayload  json.RawMessage
}

// PaymentIntentInfo is what a client needs to drive the gateway's checkout.
type PaymentIntentInfo struct {
	IntentID     string  `json:"intent_id"`
	ClientSecret string  `json:"client_secret,omitempty"`
	ApprovalURL  string  `json:"approval_url,omitempty"`
	Gateway      string  `json:"gateway"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

type ConfirmResult struct {
	Success bool
	// Mismatch marks the intent as belonging to a different booking, as
	// opposed to a payment that simply has not completed yet.
	Mismatch bool
	Message  string
	Payment  *PaymentData
}

type PaymentGateway interface {
	Name() string
	CreatePaymentIntent(ctx context.Context, booking *models.Booking) (*PaymentIntentInfo, error)
	// ConfirmPayment checks the gateway's record of an intent against the
	// booking and returns charge details when the payment has completed.
	ConfirmPayment(ctx context.Context, booking *models.Booking, intentID string) (*ConfirmResult, error)
	// ProcessWebhook extracts charge details from a verified webhook payload.
	// A nil PaymentData with nil error means the event is not one we act on.
	ProcessWebhook(ctx context.Context, payload []byte) (*PaymentData, error)
}
