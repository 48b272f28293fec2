package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jadesdev/limo-drive/models"
)

type PayPalGateway struct {
	service *PayPalService
}

func NewPayPalGateway(service *PayPalService) *PayPalGateway {
	return &PayPalGateway{service: service}
}

func (g *PayPalGateway) Name() string {
	return models.PaymentMethodPayPal
}

func (g *PayPalGateway) CreatePaymentIntent(ctx context.Context, booking *models.Booking) (*PaymentIntentInfo, error) {
	order, err := g.service.CreateOrder(ctx, booking)
	if err != nil {
		return nil, err
	}
	return &PaymentIntentInfo{
		IntentID:    order.ID,
		ApprovalURL: order.ApprovalURL(),
		Gateway:     g.Name(),
		Amount:      booking.Price,
		Currency:    "USD",
	}, nil
}

func (g *PayPalGateway) ConfirmPayment(ctx context.Context, booking *models.Booking, intentID string) (*ConfirmResult, error) {
	order, err := g.service.GetOrder(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if !orderBelongsToBooking(order, booking) {
		return &ConfirmResult{Success: false, Mismatch: true, Message: "paypal order does not belong to this booking"}, nil
	}

	// Buyer approval alone does not move money; capture the order first.
	if order.Status == "APPROVED" {
		order, err = g.service.CaptureOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
	}
	if order.Status != "COMPLETED" {
		return &ConfirmResult{Success: false, Message: "payment has not been completed yet"}, nil
	}

	return &ConfirmResult{
		Success: true,
		Payment: g.paymentData(order, booking.ID.String()),
	}, nil
}

func (g *PayPalGateway) VerifyWebhook(ctx context.Context, headers map[string]string, event []byte) (bool, error) {
	return g.service.VerifyWebhookSignature(ctx, headers, event)
}

// paypalWebhookEvent covers the fields we read from order and capture events.
type paypalWebhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID            string         `json:"id"`
		Status        string         `json:"status"`
		CustomID      string         `json:"custom_id"`
		Amount        *OrderAmount   `json:"amount"`
		PurchaseUnits []PurchaseUnit `json:"purchase_units"`
		SupplementaryData struct {
			RelatedIDs struct {
				OrderID string `json:"order_id"`
			} `json:"related_ids"`
		} `json:"supplementary_data"`
	} `json:"resource"`
}

func (g *PayPalGateway) ProcessWebhook(ctx context.Context, payload []byte) (*PaymentData, error) {
	var event paypalWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse paypal webhook payload: %w", err)
	}

	switch event.EventType {
	case "CHECKOUT.ORDER.APPROVED":
		// Capture server side; the completed capture carries the money.
		order, err := g.service.CaptureOrder(ctx, event.Resource.ID)
		if err != nil {
			return nil, err
		}
		if order.Status != "COMPLETED" {
			return nil, nil
		}
		bookingID := event.Resource.CustomID
		if bookingID == "" && len(event.Resource.PurchaseUnits) > 0 {
			bookingID = event.Resource.PurchaseUnits[0].CustomID
		}
		return g.paymentData(order, bookingID), nil

	case "PAYMENT.CAPTURE.COMPLETED":
		bookingID := event.Resource.CustomID
		if bookingID == "" {
			return nil, fmt.Errorf("paypal capture %s carries no booking id", event.Resource.ID)
		}
		amount := 0.0
		currency := "USD"
		if event.Resource.Amount != nil {
			amount, _ = strconv.ParseFloat(event.Resource.Amount.Value, 64)
			currency = event.Resource.Amount.CurrencyCode
		}
		intentID := event.Resource.SupplementaryData.RelatedIDs.OrderID
		if intentID == "" {
			intentID = event.Resource.ID
		}
		return &PaymentData{
			BookingID:       bookingID,
			PaymentIntentID: intentID,
			Amount:          amount,
			Currency:        currency,
			PaymentMethod:   models.PaymentMethodPayPal,
			GatewayName:     models.PaymentMethodPayPal,
			GatewayRef:      event.Resource.ID,
			GatewayPayload:  payload,
		}, nil
	}

	return nil, nil
}

func (g *PayPalGateway) paymentData(order *Order, bookingID string) *PaymentData {
	amount := 0.0
	currency := "USD"
	if len(order.PurchaseUnits) > 0 {
		amount, _ = strconv.ParseFloat(order.PurchaseUnits[0].Amount.Value, 64)
		if order.PurchaseUnits[0].Amount.CurrencyCode != "" {
			currency = order.PurchaseUnits[0].Amount.CurrencyCode
		}
	}
	return &PaymentData{
		BookingID:       bookingID,
		PaymentIntentID: order.ID,
		Amount:          amount,
		Currency:        currency,
		PaymentMethod:   models.PaymentMethodPayPal,
		GatewayName:     models.PaymentMethodPayPal,
		GatewayRef:      order.ID,
		GatewayPayload:  order.Raw,
	}
}

func orderBelongsToBooking(order *Order, booking *models.Booking) bool {
	for _, unit := range order.PurchaseUnits {
		if unit.CustomID == booking.ID.String() || unit.InvoiceID == booking.Code {
			return true
		}
	}
	return false
}
