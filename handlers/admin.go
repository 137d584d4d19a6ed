package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"water-delivery-api/middleware"
	"water-delivery-api/models"
	"water-delivery-api/services"
)

// AdminGetAllUsers returns all users — admin only
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	users := h.profile.ListUsers(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllOrders returns all orders newest-first with a status summary
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	orders := h.orders.ListAll(c.Request.Context())

	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusCompleted {
			totalRevenue += o.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AdminGetActiveOrders returns all in-flight orders
func (h *Handler) AdminGetActiveOrders(c *gin.Context) {
	orders := h.orders.ListActive(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AdminUpdateOrderStatus lets an admin drive or override any transition.
// History is still written; unknown statuses and no-ops are still rejected.
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.orders.ForceStatus(c.Request.Context(), orderID, models.NormalizeStatus(string(req.Status)), middleware.GetUserID(c))
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, services.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStatusAlreadySet):
		c.JSON(http.StatusConflict, gin.H{"error": "Order already has this status"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":    "Order status updated",
			"order_id":   orderID,
			"new_status": req.Status,
		})
	}
}

// AdminGetOrderHistory returns audit entries filtered by order and/or
// customer; with no filter it returns everything.
func (h *Handler) AdminGetOrderHistory(c *gin.Context) {
	history := h.orders.History(c.Request.Context(), c.Query("order_id"), c.Query("customer_id"))
	c.JSON(http.StatusOK, gin.H{"count": len(history), "history": history})
}

type QuickOrderRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	// DeliverySlot is a "HH:MM-HH:MM" window, e.g. "09:00-10:00".
	DeliverySlot string `json:"delivery_slot" binding:"required"`
	ServiceTime  int    `json:"service_time"`
	Notes        string `json:"notes"`
}

// AdminQuickCreateOrder fast-creates an order on behalf of a customer from a
// delivery slot, snapshotting the customer's stored address.
func (h *Handler) AdminQuickCreateOrder(c *gin.Context) {
	var req QuickOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ready, due, ok := strings.Cut(req.DeliverySlot, "-")
	if !ok || !clockPattern.MatchString(ready) || !clockPattern.MatchString(due) ||
		toMinutes(due) <= toMinutes(ready) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_slot must be HH:MM-HH:MM"})
		return
	}

	user := h.profile.Get(c.Request.Context(), req.UserID)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	product := h.products.GetByID(c.Request.Context(), req.ProductID)
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	serviceTime := req.ServiceTime
	if serviceTime <= 0 {
		serviceTime = defaultServiceTime
	}

	order := models.Order{
		CustomerID: user.UserID,
		Location: models.Location{
			Address:   user.Address,
			Latitude:  user.Latitude,
			Longitude: user.Longitude,
		},
		ReadyTime:   ready,
		DueDate:     due,
		ServiceTime: serviceTime,
		Request: models.OrderRequest{
			ProductID:   product.ProductID,
			ProductName: product.Name,
			Notes:       req.Notes,
			Quantity:    req.Quantity,
			Demand:      float64(req.Quantity) * product.Weight.Value,
		},
		Status:     models.StatusWaiting,
		TotalPrice: product.Price * float64(req.Quantity),
	}

	if err := h.orders.Create(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}
