package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jadesdev/limo-drive/models"
)

const paypalTokenCacheKey = "paypal_access_token"

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	WebhookID    string
	ReturnURL    string
	CancelURL    string
}

// PayPalService is a thin client over the PayPal Orders v2 REST API. Access
// tokens are cached in redis across processes and in memory as a fallback.
type PayPalService struct {
	config PayPalConfig
	http   *http.Client
	cache  *redis.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewPayPalService(config PayPalConfig, cache *redis.Client) *PayPalService {
	return &PayPalService{
		config: config,
		http:   &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
	}
}

type OrderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PurchaseUnit struct {
	ReferenceID string      `json:"reference_id,omitempty"`
	CustomID    string      `json:"custom_id,omitempty"`
	InvoiceID   string      `json:"invoice_id,omitempty"`
	Amount      OrderAmount `json:"amount"`
}

type OrderLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
	Links         []OrderLink    `json:"links"`

	Raw json.RawMessage `json:"-"`
}

func (o *Order) ApprovalURL() string {
	for _, link := range o.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			return link.Href
		}
	}
	return ""
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *PayPalService) getAccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		token := s.token
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()

	if s.cache != nil {
		if token, err := s.cache.Get(ctx, paypalTokenCacheKey).Result(); err == nil && token != "" {
			return token, nil
		}
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token request returned %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("failed to parse paypal token response: %w", err)
	}

	// Cache for slightly less than the token lifetime so we never hand out a
	// token that expires mid-request.
	ttl := time.Duration(token.ExpiresIn-300) * time.Second
	if ttl < 60*time.Second {
		ttl = 60 * time.Second
	}

	s.mu.Lock()
	s.token = token.AccessToken
	s.tokenExpiry = time.Now().Add(ttl)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, paypalTokenCacheKey, token.AccessToken, ttl).Err(); err != nil {
			log.Printf("Failed to cache paypal access token: %v", err)
		}
	}

	return token.AccessToken, nil
}

func (s *PayPalService) CreateOrder(ctx context.Context, booking *models.Booking) (*Order, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []PurchaseUnit{{
			ReferenceID: booking.Code,
			CustomID:    booking.ID.String(),
			InvoiceID:   booking.Code,
			Amount: OrderAmount{
				CurrencyCode: "USD",
				Value:        fmt.Sprintf("%.2f", booking.Price),
			},
		}},
		"application_context": map[string]string{
			"return_url": s.config.ReturnURL,
			"cancel_url": s.config.CancelURL,
		},
	}
	return s.orderRequest(ctx, http.MethodPost, "/v2/checkout/orders", payload)
}

func (s *PayPalService) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.orderRequest(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil)
}

func (s *PayPalService) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.orderRequest(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", map[string]interface{}{})
}

func (s *PayPalService) orderRequest(ctx context.Context, method, path string, payload interface{}) (*Order, error) {
	token, err := s.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal returned %d: %s", resp.StatusCode, string(raw))
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("failed to parse paypal order response: %w", err)
	}
	order.Raw = raw
	return &order, nil
}

// VerifyWebhookSignature asks PayPal to validate the transmission headers
// against the configured webhook id.
func (s *PayPalService) VerifyWebhookSignature(ctx context.Context, headers map[string]string, event []byte) (bool, error) {
	token, err := s.getAccessToken(ctx)
	if err != nil {
		return false, err
	}

	payload := map[string]interface{}{
		"auth_algo":         headers["Paypal-Auth-Algo"],
		"cert_url":          headers["Paypal-Cert-Url"],
		"transmission_id":   headers["Paypal-Transmission-Id"],
		"transmission_sig":  headers["Paypal-Transmission-Sig"],
		"transmission_time": headers["Paypal-Transmission-Time"],
		"webhook_id":        s.config.WebhookID,
		"webhook_event":     json.RawMessage(event),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/v1/notifications/verify-webhook-signature", bytes.NewReader(encoded))
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("paypal verification request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("paypal verification returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		VerificationStatus string `json:"verification_status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, err
	}
	return result.VerificationStatus == "SUCCESS", nil
}
