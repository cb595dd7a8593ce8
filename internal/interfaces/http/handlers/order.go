// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/order"
	"github.com/dajow/dajow-backend/internal/interfaces/http/middleware"
	"github.com/dajow/dajow-backend/internal/pkg/email"
)

// OrderHandler handles customer and admin order endpoints
type OrderHandler struct {
	orderService *order.Service
	emailService *email.EmailService
	config       *config.Config
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: order.NewService(db, cfg, logger),
		emailService: email.NewEmailService(cfg, logger),
		config:       cfg,
	}
}

// GetMyOrders handles GET /orders
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	response, err := h.orderService.GetUserOrders(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// GetMyOrder handles GET /orders/:id
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	o, err := h.orderService.GetCustomerOrder(userID, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, order.ErrNotOwner) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// CancelMyOrder handles PUT /orders/:id/cancel. Customers can only
// cancel while the order is still pending.
func (h *OrderHandler) CancelMyOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	existing, err := h.orderService.GetCustomerOrder(userID, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	if existing.Status != order.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Order in status %q can no longer be cancelled", existing.Status),
		})
		return
	}

	cancelled, err := h.orderService.CancelOrder(existing.ID, "Cancelled by customer", "customer")
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    cancelled,
	})
}

// AdminListOrders handles GET /admin/orders
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	var req order.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.orderService.ListOrders(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    response,
	})
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	o, err := h.orderService.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adminEmail, _ := middleware.GetUserEmailFromContext(c)
	if adminEmail == "" {
		adminEmail = "admin"
	}

	o, err := h.orderService.UpdateStatus(orderID, req.Status, req.TrackingCode, req.Comment, adminEmail)
	if err != nil {
		var transitionErr *order.InvalidTransitionError
		switch {
		case errors.Is(err, order.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.As(err, &transitionErr):
			c.JSON(http.StatusConflict, gin.H{
				"error": transitionErr.Error(),
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		}
		return
	}

	h.notifyStatusChange(o)

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// notifyStatusChange emails the customer about the new status without
// blocking the admin request
func (h *OrderHandler) notifyStatusChange(o *order.Order) {
	data := email.OrderStatusUpdateData{
		OrderNumber:  o.OrderNumber,
		Status:       string(o.Status),
		TrackingCode: o.TrackingCode,
	}
	data.UserName = o.ShippingDetails.FullName
	data.UserEmail = o.Email

	go func() {
		_ = h.emailService.SendOrderStatusUpdateEmail(context.Background(), data)
	}()
}
