// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/domain/analytics"
)

// AnalyticsHandler handles admin analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		config:           cfg,
	}
}

// GetDashboard handles GET /admin/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve dashboard stats",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard stats retrieved successfully",
		"data":    stats,
	})
}

// GetRevenueReport handles GET /admin/analytics/revenue
func (h *AnalyticsHandler) GetRevenueReport(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "days must be between 1 and 365",
		})
		return
	}

	report, err := h.analyticsService.GetRevenueReport(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve revenue report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue report retrieved successfully",
		"data":    report,
	})
}
