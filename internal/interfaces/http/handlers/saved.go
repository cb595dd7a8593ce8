// internal/interfaces/http/handlers/saved.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/catalog"
	"github.com/dajow/dajow-backend/internal/domain/saved"
	"github.com/dajow/dajow-backend/internal/interfaces/http/middleware"
)

// SavedHandler handles saved-for-later endpoints
type SavedHandler struct {
	savedService *saved.Service
	config       *config.Config
}

// NewSavedHandler creates a new saved items handler
func NewSavedHandler(db *gorm.DB, cfg *config.Config) *SavedHandler {
	return &SavedHandler{
		savedService: saved.NewService(db, cfg),
		config:       cfg,
	}
}

// List handles GET /saved
func (h *SavedHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	response, err := h.savedService.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve saved items",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Saved items retrieved successfully",
		"data":    response,
	})
}

// Save handles POST /saved
func (h *SavedHandler) Save(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req saved.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.savedService.Save(userID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, saved.ErrAlreadySaved):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Product is already saved",
			})
		case errors.Is(err, catalog.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to save item",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item saved successfully",
		"data":    item,
	})
}

// Check handles GET /saved/check/:productId
func (h *SavedHandler) Check(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	isSaved, err := h.savedService.IsSaved(userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check saved status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"product_id": productID,
			"saved":      isSaved,
		},
	})
}

// Remove handles DELETE /saved/:productId
func (h *SavedHandler) Remove(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	if err := h.savedService.Remove(userID, productID); err != nil {
		if errors.Is(err, saved.ErrNotSaved) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not in saved list",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove saved item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed successfully",
	})
}
