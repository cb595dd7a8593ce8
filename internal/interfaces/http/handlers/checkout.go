// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/checkout"
	"github.com/dajow/dajow-backend/internal/domain/order"
	"github.com/dajow/dajow-backend/internal/domain/payment"
	"github.com/dajow/dajow-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the checkout step machine endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	states := checkout.NewRedisStateStore(redisClient, cfg.Checkout.CartTTL, cfg.Checkout.IdempotencyTTL)
	checkoutService := checkout.NewService(
		cart.NewService(redisClient, cfg),
		order.NewService(db, cfg, logger),
		payment.NewStripeService(cfg, logger),
		states,
		cfg,
		logger,
	)

	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
	}
}

// GetSummary handles GET /checkout
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	scope := resolveScope(c)

	summary, err := h.checkoutService.GetSummary(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve checkout state",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout state retrieved successfully",
		"data":    summary,
	})
}

// BeginDetails handles POST /checkout/begin
func (h *CheckoutHandler) BeginDetails(c *gin.Context) {
	scope := resolveScope(c)

	sess, err := h.checkoutService.BeginDetails(c.Request.Context(), scope)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout started",
		"data":    sess,
	})
}

// SubmitDetails handles POST /checkout/details
func (h *CheckoutHandler) SubmitDetails(c *gin.Context) {
	scope := resolveScope(c)

	var details order.ShippingDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.checkoutService.SubmitDetails(c.Request.Context(), scope, details)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping details saved",
		"data":    sess,
	})
}

// Submit handles POST /checkout/submit. Retried submits should carry
// the same Idempotency-Key header so only one order is created.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	scope := resolveScope(c)

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	var req checkout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	result, err := h.checkoutService.Submit(c.Request.Context(), scope, userID, req.Method, idempotencyKey)
	if err != nil {
		h.renderCheckoutError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

// Reset handles DELETE /checkout
func (h *CheckoutHandler) Reset(c *gin.Context) {
	scope := resolveScope(c)

	if err := h.checkoutService.ResetSession(c.Request.Context(), scope); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to reset checkout",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout reset successfully",
	})
}

func (h *CheckoutHandler) renderCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, checkout.ErrIncompleteDetails):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Shipping details are incomplete",
		})
	case errors.Is(err, checkout.ErrWrongStep):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Checkout is not at the right step for this action",
		})
	case errors.Is(err, checkout.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A submit with this idempotency key is already in progress",
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	}
}
