package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/jadesdev/limo-drive/models"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) Name() string {
	return models.PaymentMethodStripe
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, booking *models.Booking) (*PaymentIntentInfo, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(toCents(booking.Price)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("booking_id", booking.ID.String())
	params.AddMetadata("booking_code", booking.Code)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe payment intent: %w", err)
	}

	return &PaymentIntentInfo{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Gateway:      g.Name(),
		Amount:       booking.Price,
		Currency:     strings.ToUpper(string(intent.Currency)),
	}, nil
}

func (g *StripeGateway) ConfirmPayment(ctx context.Context, booking *models.Booking, intentID string) (*ConfirmResult, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	intent, err := g.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve stripe payment intent: %w", err)
	}

	if intent.Metadata["booking_id"] != booking.ID.String() {
		return &ConfirmResult{Success: false, Mismatch: true, Message: "payment intent does not belong to this booking"}, nil
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return &ConfirmResult{Success: false, Message: "payment has not been completed yet"}, nil
	}

	return &ConfirmResult{
		Success: true,
		Payment: g.paymentData(intent),
	}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the endpoint
// secret and decodes the event. Callers must reject the request outright when
// this fails.
func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
}

// ProcessWebhook handles the payment_intent object carried in a verified
// payment_intent.succeeded event.
func (g *StripeGateway) ProcessWebhook(ctx context.Context, payload []byte) (*PaymentData, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse stripe webhook payload: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, nil
	}
	if intent.Metadata["booking_id"] == "" {
		return nil, fmt.Errorf("stripe payment intent %s carries no booking id", intent.ID)
	}
	return g.paymentData(&intent), nil
}

func (g *StripeGateway) paymentData(intent *stripe.PaymentIntent) *PaymentData {
	raw, _ := json.Marshal(intent)
	return &PaymentData{
		BookingID:       intent.Metadata["booking_id"],
		PaymentIntentID: intent.ID,
		Amount:          fromCents(intent.Amount),
		Currency:        strings.ToUpper(string(intent.Currency)),
		PaymentMethod:   models.PaymentMethodStripe,
		GatewayName:     models.PaymentMethodStripe,
		GatewayRef:      intent.ID,
		GatewayPayload:  raw,
	}
}

func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}
