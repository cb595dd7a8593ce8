// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/cart"
	"github.com/dajow/dajow-backend/internal/domain/catalog"
	"github.com/dajow/dajow-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService    *cart.Service
	catalogService *catalog.Service
	config         *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService:    cart.NewService(redisClient, cfg),
		catalogService: catalog.NewService(db, cfg),
		config:         cfg,
	}
}

// AddToCartRequest represents an add to cart payload
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	scope := resolveScope(c)

	cartSnapshot, err := h.cartService.GetCart(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartSnapshot,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	scope := resolveScope(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalogService.GetProduct(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	if !product.InStock {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product is out of stock",
		})
		return
	}

	line := cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Image:     product.Image,
		Quantity:  req.Quantity,
	}

	cartSnapshot, err := h.cartService.AddItem(c.Request.Context(), scope, line)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartSnapshot,
	})
}

// DecreaseCartItem handles POST /cart/items/:id/decrease
func (h *CartHandler) DecreaseCartItem(c *gin.Context) {
	scope := resolveScope(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	cartSnapshot, err := h.cartService.DecreaseItem(c.Request.Context(), scope, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    cartSnapshot,
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	scope := resolveScope(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	cartSnapshot, err := h.cartService.RemoveItem(c.Request.Context(), scope, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove item from cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartSnapshot,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	scope := resolveScope(c)

	if err := h.cartService.ClearCart(c.Request.Context(), scope); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// resolveScope picks the cart scope for the request: the authenticated
// user when present, otherwise the guest session cookie.
func resolveScope(c *gin.Context) string {
	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		return cart.UserScope(userID)
	}
	return cart.SessionScope(getOrCreateSessionID(c))
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()

		// Session cookie lives 30 days
		c.SetCookie("session_id", sessionID, 30*86400, "/", "", false, true)
	}

	return sessionID
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
