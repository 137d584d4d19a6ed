package routes

import (
	"github.com/gin-gonic/gin"

	"water-delivery-api/handlers"
	"water-delivery-api/middleware"
	"water-delivery-api/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)

		// Catalog (read-only, no auth needed)
		public.GET("/products", h.ListProducts)
		public.GET("/products/:id", h.GetProduct)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)

		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders", h.GetMyOrders)
		auth.GET("/orders/summary", h.GetOrderSummary)
		auth.GET("/orders/:id/history", h.GetOrderHistory)
		auth.PUT("/orders/:id/cancel", h.CancelOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", h.AdminGetAllUsers)
		admin.GET("/orders", h.AdminGetAllOrders)
		admin.GET("/orders/active", h.AdminGetActiveOrders)
		admin.GET("/orders/history", h.AdminGetOrderHistory)
		admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.POST("/orders", h.AdminQuickCreateOrder)
	}
}
