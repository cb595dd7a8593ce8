// internal/domain/payment/stripe_service.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/order"
)

// CheckoutSession is the subset of the gateway's session object the
// backend cares about
type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"` // "paid", "unpaid", "no_payment_required"
	Status        string `json:"status"`         // "open", "complete", "expired"
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
	Metadata      struct {
		OrderNumber string `json:"order_number"`
	} `json:"metadata"`
}

// VerificationState is the outcome of a session verification.
// A lookup failure maps to unknown, never to paid or unpaid.
type VerificationState string

const (
	VerificationPaid    VerificationState = "paid"
	VerificationUnpaid  VerificationState = "unpaid"
	VerificationUnknown VerificationState = "unknown"
)

// StripeService talks to the Stripe Checkout API over its form-encoded
// REST surface
type StripeService struct {
	config     *config.Config
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewStripeService creates a new Stripe hosted-checkout client
func NewStripeService(cfg *config.Config, logger *logrus.Logger) *StripeService {
	return &StripeService{
		config:    cfg,
		secretKey: cfg.External.Stripe.SecretKey,
		baseURL:   "https://api.stripe.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Currency returns the store's checkout currency derived from the
// configured country
func (s *StripeService) Currency() string {
	return CurrencyForCountry(s.config.External.Stripe.Country)
}

// CreateCheckoutSession creates a hosted checkout session for the order
// and returns its id and redirect URL
func (s *StripeService) CreateCheckoutSession(ctx context.Context, o *order.Order) (*CheckoutSession, error) {
	if s.secretKey == "" {
		return nil, fmt.Errorf("stripe secret key not configured")
	}
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("order %s has no items", o.OrderNumber)
	}

	currency := s.Currency()
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", s.config.External.Stripe.SuccessURL+"?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", s.config.External.Stripe.CancelURL)
	form.Set("customer_email", o.Email)
	form.Set("metadata[order_number]", o.OrderNumber)

	for i, item := range o.Items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
		form.Set(prefix+"[price_data][currency]", currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.UnitPrice, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
	}

	// Tax and shipping ride along as synthetic line items so the hosted
	// page total matches the order total exactly.
	extra := len(o.Items)
	if o.TaxAmount > 0 {
		prefix := fmt.Sprintf("line_items[%d]", extra)
		form.Set(prefix+"[quantity]", "1")
		form.Set(prefix+"[price_data][currency]", currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(o.TaxAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", "VAT")
		extra++
	}
	if o.ShippingAmount > 0 {
		prefix := fmt.Sprintf("line_items[%d]", extra)
		form.Set(prefix+"[quantity]", "1")
		form.Set(prefix+"[price_data][currency]", currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(o.ShippingAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", "Shipping")
	}

	respBody, err := s.makeAPICall(ctx, http.MethodPost, "/checkout/sessions", form)
	if err != nil {
		return nil, err
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session response: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"session_id":   session.ID,
	}).Info("Created hosted checkout session")

	return &session, nil
}

// RetrieveSession fetches a checkout session by id
func (s *StripeService) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	respBody, err := s.makeAPICall(ctx, http.MethodGet, "/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, err
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session response: %w", err)
	}
	return &session, nil
}

// VerifySession checks whether a hosted checkout session was paid.
// Any lookup error returns unknown; payment is only ever confirmed by a
// successful gateway read.
func (s *StripeService) VerifySession(ctx context.Context, sessionID string) (VerificationState, *CheckoutSession, error) {
	session, err := s.RetrieveSession(ctx, sessionID)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).
			Warn("Checkout session verification failed")
		return VerificationUnknown, nil, err
	}

	if session.PaymentStatus == "paid" {
		return VerificationPaid, session, nil
	}
	return VerificationUnpaid, session, nil
}

// makeAPICall makes a form-encoded HTTP call to the Stripe API
func (s *StripeService) makeAPICall(ctx context.Context, method, endpoint string, form url.Values) ([]byte, error) {
	var body *bytes.Reader
	if form != nil {
		body = bytes.NewReader([]byte(form.Encode()))
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody.Bytes(), &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("gateway error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("gateway error: status %d", resp.StatusCode)
	}

	return respBody.Bytes(), nil
}
