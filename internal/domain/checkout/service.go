// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/order"
	"github.com/dajow/dajow-backend/internal/domain/payment"
)

// CartStore reads and clears cart snapshots
type CartStore interface {
	GetCart(ctx context.Context, scope string) (*cart.Cart, error)
	ClearCart(ctx context.Context, scope string) error
}

// OrderStore creates and amends orders on behalf of checkout
type OrderStore interface {
	CreateOrder(input *order.CreateOrderInput) (*order.Order, error)
	CancelOrder(orderID uint, reason, actor string) (*order.Order, error)
	AttachGatewaySession(orderID uint, providerSessionID, checkoutURL string) error
	GetOrderByNumber(number string) (*order.Order, error)
}

// PaymentGateway creates hosted checkout sessions
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, o *order.Order) (*payment.CheckoutSession, error)
	Currency() string
}

// SubmitRequest is the payment-step submit payload
type SubmitRequest struct {
	Method order.PaymentMethod `json:"method" binding:"required"`
}

// SubmitResult is returned from a successful submit. Exactly one of
// RedirectURL or HandoffURL is set depending on the method.
type SubmitResult struct {
	Order       *order.Order        `json:"order"`
	Method      order.PaymentMethod `json:"method"`
	RedirectURL string              `json:"redirect_url,omitempty"`
	HandoffURL  string              `json:"handoff_url,omitempty"`
	Duplicate   bool                `json:"duplicate,omitempty"`
}

// Summary is the checkout state plus derived pricing for the client
type Summary struct {
	Session *Session     `json:"session"`
	Cart    *cart.Cart   `json:"cart"`
	Pricing Pricing      `json:"pricing"`
	Methods []MethodInfo `json:"payment_methods"`
}

// MethodInfo describes an available payment method
type MethodInfo struct {
	ID          order.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
}

// Service orchestrates the checkout step machine: cart review, shipping
// details capture, then payment submit via the hosted gateway or the
// manual handoff channel.
type Service struct {
	carts   CartStore
	orders  OrderStore
	gateway PaymentGateway
	states  StateStore
	config  *config.Config
	logger  *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts CartStore, orders OrderStore, gateway PaymentGateway, states StateStore, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		carts:   carts,
		orders:  orders,
		gateway: gateway,
		states:  states,
		config:  cfg,
		logger:  logger,
	}
}

// GetSummary returns the current checkout state with pricing for the
// scope's cart
func (s *Service) GetSummary(ctx context.Context, scope string) (*Summary, error) {
	sess, err := s.states.Load(ctx, scope)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Session: sess,
		Cart:    c,
		Pricing: s.priceCart(c),
		Methods: s.availableMethods(),
	}, nil
}

// BeginDetails advances the scope's checkout to the details step
func (s *Service) BeginDetails(ctx context.Context, scope string) (*Session, error) {
	sess, err := s.states.Load(ctx, scope)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := sess.BeginDetails(c); err != nil {
		return nil, err
	}
	if err := s.states.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitDetails stores validated shipping details and advances to the
// payment step
func (s *Service) SubmitDetails(ctx context.Context, scope string, details order.ShippingDetails) (*Session, error) {
	sess, err := s.states.Load(ctx, scope)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := sess.SetDetails(c, details); err != nil {
		return nil, err
	}
	if err := s.states.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Submit completes the payment step. It creates a pending order from
// the cart snapshot, then either redirects to the hosted gateway or
// clears the cart and returns the manual handoff link.
//
// idempotencyKey deduplicates retried submits: a repeated key returns
// the originally created order instead of a second one.
func (s *Service) Submit(ctx context.Context, scope string, userID *uint, method order.PaymentMethod, idempotencyKey string) (*SubmitResult, error) {
	if method != order.PaymentMethodHostedGateway && method != order.PaymentMethodManualHandoff {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}

	sess, err := s.states.Load(ctx, scope)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.GetCart(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := sess.ReadyToSubmit(c); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		existing, claimed, err := s.states.ClaimIdempotencyKey(ctx, idempotencyKey)
		if err != nil {
			return nil, err
		}
		if !claimed {
			if existing == "" {
				return nil, ErrSubmitInProgress
			}
			return s.replaySubmit(existing)
		}
	}

	result, err := s.doSubmit(ctx, scope, userID, method, sess, c)
	if idempotencyKey != "" {
		if err != nil {
			if relErr := s.states.ReleaseIdempotencyKey(ctx, idempotencyKey); relErr != nil {
				s.logger.WithError(relErr).Warn("Failed to release idempotency key")
			}
		} else if cmpErr := s.states.CompleteIdempotencyKey(ctx, idempotencyKey, result.Order.OrderNumber); cmpErr != nil {
			s.logger.WithError(cmpErr).Warn("Failed to record idempotency key")
		}
	}
	return result, err
}

func (s *Service) doSubmit(ctx context.Context, scope string, userID *uint, method order.PaymentMethod, sess *Session, c *cart.Cart) (*SubmitResult, error) {
	pricing := s.priceCart(c)

	items := make([]order.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, order.OrderItem{
			ProductID:  line.ProductID,
			Name:       line.Name,
			Image:      line.Image,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.LineTotal(),
		})
	}

	provider := "whatsapp"
	if method == order.PaymentMethodHostedGateway {
		provider = "stripe"
	}

	input := &order.CreateOrderInput{
		UserID:          userID,
		Email:           sess.Details.Email,
		Items:           items,
		SubtotalAmount:  pricing.Subtotal,
		TaxAmount:       pricing.Tax,
		ShippingAmount:  pricing.ShippingFee,
		TotalAmount:     pricing.Total,
		Currency:        s.gateway.Currency(),
		ShippingDetails: *sess.Details,
		PaymentMethod:   method,
		PaymentProvider: provider,
	}

	o, err := s.orders.CreateOrder(input)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	switch method {
	case order.PaymentMethodHostedGateway:
		return s.submitHosted(ctx, scope, o)
	default:
		return s.submitManual(ctx, scope, o)
	}
}

// submitHosted creates the gateway session. The cart survives until the
// payment is confirmed; a gateway failure cancels the just-created
// order so no orphaned pending order is left behind.
func (s *Service) submitHosted(ctx context.Context, scope string, o *order.Order) (*SubmitResult, error) {
	gwSession, err := s.gateway.CreateCheckoutSession(ctx, o)
	if err != nil {
		if _, cancelErr := s.orders.CancelOrder(o.ID, "Gateway session creation failed", "system"); cancelErr != nil {
			s.logger.WithError(cancelErr).WithField("order_number", o.OrderNumber).
				Error("Failed to cancel order after gateway failure")
		}
		return nil, fmt.Errorf("failed to start hosted checkout: %w", err)
	}

	if err := s.orders.AttachGatewaySession(o.ID, gwSession.ID, gwSession.URL); err != nil {
		return nil, err
	}
	o.ProviderSessionID = gwSession.ID
	o.CheckoutURL = gwSession.URL

	if err := s.states.Delete(ctx, scope); err != nil {
		s.logger.WithError(err).Warn("Failed to clear checkout session")
	}

	return &SubmitResult{
		Order:       o,
		Method:      order.PaymentMethodHostedGateway,
		RedirectURL: gwSession.URL,
	}, nil
}

// submitManual clears the cart, then returns the prefilled handoff link
func (s *Service) submitManual(ctx context.Context, scope string, o *order.Order) (*SubmitResult, error) {
	if err := s.carts.ClearCart(ctx, scope); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	if err := s.states.Delete(ctx, scope); err != nil {
		s.logger.WithError(err).Warn("Failed to clear checkout session")
	}

	handoffURL := BuildHandoffURL(s.config.External.WhatsApp.BusinessNumber, o)

	return &SubmitResult{
		Order:      o,
		Method:     order.PaymentMethodManualHandoff,
		HandoffURL: handoffURL,
	}, nil
}

// replaySubmit rebuilds the submit result for a duplicate idempotent
// request from the stored order
func (s *Service) replaySubmit(orderNumber string) (*SubmitResult, error) {
	o, err := s.orders.GetOrderByNumber(orderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load original order for duplicate submit: %w", err)
	}

	result := &SubmitResult{
		Order:     o,
		Method:    o.PaymentMethod,
		Duplicate: true,
	}
	switch o.PaymentMethod {
	case order.PaymentMethodHostedGateway:
		result.RedirectURL = o.CheckoutURL
	default:
		result.HandoffURL = BuildHandoffURL(s.config.External.WhatsApp.BusinessNumber, o)
	}
	return result, nil
}

// ResetSession returns the scope's checkout to the cart step
func (s *Service) ResetSession(ctx context.Context, scope string) error {
	return s.states.Delete(ctx, scope)
}

func (s *Service) priceCart(c *cart.Cart) Pricing {
	return ComputePricing(
		c.Subtotal(),
		s.config.Checkout.TaxRate,
		s.config.Checkout.ShippingFlatFee,
		s.config.Checkout.FreeShippingThreshold,
	)
}

func (s *Service) availableMethods() []MethodInfo {
	return []MethodInfo{
		{
			ID:          order.PaymentMethodHostedGateway,
			Name:        "Pay by card",
			Description: "Secure card payment via hosted checkout",
			Available:   s.config.External.Stripe.SecretKey != "",
		},
		{
			ID:          order.PaymentMethodManualHandoff,
			Name:        "Order via WhatsApp",
			Description: "Complete your order with our team on WhatsApp",
			Available:   s.config.External.WhatsApp.BusinessNumber != "",
		},
	}
}
