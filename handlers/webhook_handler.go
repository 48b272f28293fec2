package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"

	"github.com/jadesdev/limo-drive/models"
)

// WebhookProcessor settles verified gateway events against bookings.
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, gatewayName string, payload []byte) (bool, error)
}

// StripeVerifier checks a raw payload against the Stripe-Signature header.
type StripeVerifier interface {
	VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error)
}

// PayPalVerifier validates a webhook transmission with PayPal.
type PayPalVerifier interface {
	VerifyWebhook(ctx context.Context, headers map[string]string, event []byte) (bool, error)
}

type WebhookHandler struct {
	processor WebhookProcessor
	stripe    StripeVerifier
	paypal    PayPalVerifier
}

func NewWebhookHandler(processor WebhookProcessor, stripe StripeVerifier, paypal PayPalVerifier) *WebhookHandler {
	return &WebhookHandler{processor: processor, stripe: stripe, paypal: paypal}
}

// HandleStripeWebhook verifies the signature before trusting a single byte of
// the payload. Unverifiable requests are rejected outright; verified events
// we do not act on are acknowledged so Stripe stops retrying them.
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	event, err := h.stripe.VerifyWebhook(payload, c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("🔥 Stripe webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	switch event.Type {
	case "payment_intent.succeeded":
		processed, err := h.processor.ProcessWebhook(c.Context(), models.PaymentMethodStripe, event.Data.Raw)
		if err != nil {
			log.Printf("🔥 Failed to process stripe event %s: %v", event.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Processing failed"})
		}
		if processed {
			log.Printf("✅ Stripe event %s settled a booking payment", event.ID)
		}
	case "payment_intent.payment_failed":
		log.Printf("Stripe reported a failed payment attempt, event %s", event.ID)
	case "payment_intent.canceled":
		log.Printf("Stripe payment intent canceled, event %s", event.ID)
	default:
		log.Printf("Ignoring stripe event type %s", event.Type)
	}

	return c.JSON(fiber.Map{"received": true})
}

// HandlePayPalWebhook validates the transmission with PayPal's verification
// endpoint, then settles order and capture events.
func (h *WebhookHandler) HandlePayPalWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	headers := map[string]string{
		"Paypal-Auth-Algo":         c.Get("Paypal-Auth-Algo"),
		"Paypal-Cert-Url":          c.Get("Paypal-Cert-Url"),
		"Paypal-Transmission-Id":   c.Get("Paypal-Transmission-Id"),
		"Paypal-Transmission-Sig":  c.Get("Paypal-Transmission-Sig"),
		"Paypal-Transmission-Time": c.Get("Paypal-Transmission-Time"),
	}

	verified, err := h.paypal.VerifyWebhook(c.Context(), headers, payload)
	if err != nil {
		log.Printf("🔥 PayPal webhook verification errored: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Verification failed"})
	}
	if !verified {
		log.Println("🔥 PayPal webhook signature verification failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	processed, err := h.processor.ProcessWebhook(c.Context(), models.PaymentMethodPayPal, payload)
	if err != nil {
		log.Printf("🔥 Failed to process paypal webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Processing failed"})
	}
	if processed {
		log.Println("✅ PayPal webhook settled a booking payment")
	}

	return c.JSON(fiber.Map{"received": true})
}
