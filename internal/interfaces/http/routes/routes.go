// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dajow/dajow-backend/internal/config"
	"github.com/dajow/dajow-backend/internal/interfaces/http/handlers"
	"github.com/dajow/dajow-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every API route group onto the version group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, redisClient, cfg, logger)
	productHandler := handlers.NewProductHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg, logger)
	orderHandler := handlers.NewOrderHandler(db, cfg, logger)
	paymentHandler := handlers.NewPaymentHandler(db, redisClient, cfg, logger)
	savedHandler := handlers.NewSavedHandler(db, cfg)
	uploadHandler := handlers.NewUploadHandler(db, cfg)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	// Auth
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}

	// Catalog (public)
	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
	}

	// Cart works for guests and authenticated users alike
	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.POST("/items/:id/decrease", cartHandler.DecreaseCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cart.DELETE("", cartHandler.ClearCart)
	}

	// Checkout step machine, guest-friendly like the cart
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		checkout.GET("", checkoutHandler.GetSummary)
		checkout.POST("/begin", checkoutHandler.BeginDetails)
		checkout.POST("/details", checkoutHandler.SubmitDetails)
		checkout.POST("/submit", checkoutHandler.Submit)
		checkout.DELETE("", checkoutHandler.Reset)
	}

	// Payment verification after the hosted redirect
	payment := rg.Group("/payment")
	payment.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		payment.GET("/verify", paymentHandler.VerifySession)
	}

	// Gateway webhooks (signature-verified, no auth)
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/stripe", paymentHandler.HandleWebhook)
	}

	// Customer orders
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.GetMyOrders)
		orders.GET("/:id", orderHandler.GetMyOrder)
		orders.PUT("/:id/cancel", orderHandler.CancelMyOrder)
	}

	// Saved for later
	savedGroup := rg.Group("/saved")
	savedGroup.Use(middleware.AuthMiddleware(cfg))
	{
		savedGroup.GET("", savedHandler.List)
		savedGroup.GET("/check/:productId", savedHandler.Check)
		savedGroup.POST("", savedHandler.Save)
		savedGroup.DELETE("/:productId", savedHandler.Remove)
	}

	// Admin
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		adminProducts := admin.Group("/products")
		{
			adminProducts.POST("", productHandler.AdminCreateProduct)
			adminProducts.PUT("/:id", productHandler.AdminUpdateProduct)
			adminProducts.PUT("/:id/stock", productHandler.AdminSetStock)
			adminProducts.DELETE("/:id", productHandler.AdminDeleteProduct)
		}

		adminOrders := admin.Group("/orders")
		{
			adminOrders.GET("", orderHandler.AdminListOrders)
			adminOrders.GET("/:id", orderHandler.AdminGetOrder)
			adminOrders.PUT("/:id/status", orderHandler.AdminUpdateOrderStatus)
		}

		uploads := admin.Group("/uploads")
		{
			uploads.POST("", uploadHandler.UploadImage)
			uploads.GET("", uploadHandler.ListImages)
			uploads.DELETE("/:id", uploadHandler.DeleteImage)
		}

		analytics := admin.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.GetDashboard)
			analytics.GET("/revenue", analyticsHandler.GetRevenueReport)
		}
	}
}
