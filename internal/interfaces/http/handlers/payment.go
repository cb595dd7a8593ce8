// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/order"
	"github.com/dajow/dajow-backend/internal/domain/payment"
	"github.com/dajow/dajow-backend/internal/pkg/email"
)

// PaymentHandler handles hosted gateway verification and webhooks
type PaymentHandler struct {
	stripeService *payment.StripeService
	orderService  *order.Service
	cartService   *cart.Service
	emailService  *email.EmailService
	config        *config.Config
	logger        *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		stripeService: payment.NewStripeService(cfg, logger),
		orderService:  order.NewService(db, cfg, logger),
		cartService:   cart.NewService(redisClient, cfg),
		emailService:  email.NewEmailService(cfg, logger),
		config:        cfg,
		logger:        logger,
	}
}

// VerifySession handles GET /payment/verify. The success page calls it
// with the gateway session id; only a confirmed gateway read marks the
// order paid and releases the cart.
func (h *PaymentHandler) VerifySession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "session_id is required",
		})
		return
	}

	state, _, err := h.stripeService.VerifySession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"message": "Payment state could not be verified",
			"data": gin.H{
				"state": state,
			},
		})
		return
	}

	if state != payment.VerificationPaid {
		c.JSON(http.StatusOK, gin.H{
			"message": "Payment not completed",
			"data": gin.H{
				"state": state,
			},
		})
		return
	}

	o, err := h.confirmPayment(sessionID, 0, "")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No order found for this payment session",
		})
		return
	}

	// The cart survived the hosted redirect; drop it now that payment
	// is confirmed
	scope := resolveScope(c)
	if err := h.cartService.ClearCart(c.Request.Context(), scope); err != nil {
		h.logger.WithError(err).Warn("Failed to clear cart after payment")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed",
		"data": gin.H{
			"state": payment.VerificationPaid,
			"order": o,
		},
	})
}

// HandleWebhook handles POST /webhooks/stripe. The raw body is verified
// against the Stripe-Signature header before any event is trusted.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read webhook payload",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	event, err := payment.ParseWebhookEvent(payload, signature, h.config.External.Stripe.WebhookSecret)
	if err != nil {
		h.logger.WithError(err).Warn("Rejected webhook")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid webhook signature",
		})
		return
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		session := event.Data.Object
		if session.PaymentStatus != "paid" {
			break
		}

		o, err := h.confirmPayment(session.ID, session.AmountTotal, session.Currency)
		if err != nil {
			h.logger.WithError(err).WithField("session_id", session.ID).
				Warn("Webhook payment confirmation failed")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		// The webhook knows the customer only for account orders;
		// guest carts are released when the browser hits the verify
		// endpoint
		if o.UserID != nil {
			scope := cart.UserScope(*o.UserID)
			if err := h.cartService.ClearCart(c.Request.Context(), scope); err != nil {
				h.logger.WithError(err).Warn("Failed to clear cart after webhook payment")
			}
		}
	default:
		h.logger.WithField("type", event.Type).Debug("Ignoring webhook event")
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// confirmPayment marks the order behind a session paid and sends the
// payment confirmation email once
func (h *PaymentHandler) confirmPayment(sessionID string, amount int64, currency string) (*order.Order, error) {
	o, err := h.orderService.GetOrderBySession(sessionID)
	if err != nil {
		return nil, err
	}

	alreadyPaid := o.Status == order.OrderStatusPaid

	if amount == 0 {
		amount = o.TotalAmount
	}
	if currency == "" {
		currency = o.Currency
	}

	updated, err := h.orderService.MarkPaidBySession(sessionID, amount, currency, "gateway")
	if err != nil {
		return nil, err
	}

	if !alreadyPaid {
		data := email.PaymentNotificationData{
			OrderNumber: updated.OrderNumber,
			Amount:      fmt.Sprintf("%s %.2f", updated.Currency, float64(amount)/100),
			Date:        updated.CreatedAt.Format("2006-01-02"),
		}
		data.UserName = updated.ShippingDetails.FullName
		data.UserEmail = updated.Email
		h.sendAsync(func() error {
			return h.emailService.SendPaymentSuccessEmail(context.Background(), data)
		})
	}

	return updated, nil
}

func (h *PaymentHandler) sendAsync(send func() error) {
	go func() {
		if err := send(); err != nil {
			h.logger.WithError(err).Warn("Failed to send payment email")
		}
	}()
}
