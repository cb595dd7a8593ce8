// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/upload"
	"github.com/dajow/dajow-backend/internal/interfaces/http/middleware"
)

// UploadHandler handles admin image upload endpoints
type UploadHandler struct {
	uploadService *upload.Service
	config        *config.Config
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		uploadService: upload.NewService(db, cfg),
		config:        cfg,
	}
}

// UploadImage handles POST /admin/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No image file provided",
		})
		return
	}
	defer file.Close()

	uploaded, err := h.uploadService.UploadImage(file, header, userID)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "File exceeds maximum upload size",
			})
		case errors.Is(err, upload.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "File type not allowed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to upload image",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image uploaded successfully",
		"data":    uploaded,
	})
}

// ListImages handles GET /admin/uploads
func (h *UploadHandler) ListImages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	files, total, err := h.uploadService.ListImages(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve uploads",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Uploads retrieved successfully",
		"data": gin.H{
			"files": files,
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// DeleteImage handles DELETE /admin/uploads/:id
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid upload ID",
		})
		return
	}

	if err := h.uploadService.DeleteImage(id); err != nil {
		if errors.Is(err, upload.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Upload not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete upload",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload deleted successfully",
	})
}
