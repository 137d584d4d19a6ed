package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"water-delivery-api/middleware"
	"water-delivery-api/models"
	"water-delivery-api/services"
	"water-delivery-api/statemachine"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Fallback coordinates for users whose profile predates geocoding.
const (
	defaultLatitude  = 39.7598
	defaultLongitude = 30.5042
)

const defaultServiceTime = 120 // seconds

type PlaceOrderRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	ReadyTime string `json:"ready_time" binding:"required"`
	DueDate   string `json:"due_date" binding:"required"`
	Notes     string `json:"notes"`
	// Optional delivery-location override; defaults to the profile snapshot.
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func toMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	hh, _ := strconv.Atoi(parts[0])
	mm, _ := strconv.Atoi(parts[1])
	return hh*60 + mm
}

// PlaceOrder creates a new delivery order for the authenticated user. Input
// validation lives here: the order service trusts what it is given.
func (h *Handler) PlaceOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !clockPattern.MatchString(req.ReadyTime) || !clockPattern.MatchString(req.DueDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ready_time and due_date must be HH:MM"})
		return
	}
	if toMinutes(req.DueDate) <= toMinutes(req.ReadyTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be after ready_time"})
		return
	}

	product := h.products.GetByID(c.Request.Context(), req.ProductID)
	if product == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found"})
		return
	}

	user := h.profile.Get(c.Request.Context(), customerID)
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	location := models.Location{
		Address:   user.Address,
		Latitude:  user.Latitude,
		Longitude: user.Longitude,
	}
	if location.Latitude == 0 && location.Longitude == 0 {
		location.Latitude = defaultLatitude
		location.Longitude = defaultLongitude
	}
	if req.Address != nil {
		location.Address = *req.Address
	}
	if req.Latitude != nil {
		location.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		location.Longitude = *req.Longitude
	}
	if location.Latitude < -90 || location.Latitude > 90 ||
		location.Longitude < -180 || location.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery coordinates out of range"})
		return
	}

	order := models.Order{
		CustomerID:  customerID,
		Location:    location,
		ReadyTime:   req.ReadyTime,
		DueDate:     req.DueDate,
		ServiceTime: defaultServiceTime,
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns the caller's orders, optionally filtered by status
// token and an inclusive order_date range. Admins may inspect another user
// via ?user_id=.
func (h *Handler) GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	if target := c.Query("user_id"); target != "" && target != customerID {
		if middleware.GetRole(c) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own orders"})
			return
		}
		customerID = target
	}

	var from, to *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		from = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		to = &parsed
	}

	orders := h.orders.List(c.Request.Context(), customerID, c.Query("status"), from, to)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderSummary returns the caller's dashboard counts. The -1 sentinel
// from the service marks a store failure, surfaced as 503 here.
func (h *Handler) GetOrderSummary(c *gin.Context) {
	counts := h.orders.CountByStatus(c.Request.Context(), middleware.GetUserID(c))
	if counts.Total < 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Order counts unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// GetOrderHistory returns the audit trail of one of the caller's orders.
func (h *Handler) GetOrderHistory(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	order, err := h.orders.Get(c.Request.Context(), orderID)
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	if order.CustomerID != callerID && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	history := h.orders.History(c.Request.Context(), orderID, "")
	c.JSON(http.StatusOK, gin.H{"count": len(history), "history": history})
}

// CancelOrder cancels one of the caller's orders. The state machine only
// allows this while the order is still waiting.
func (h *Handler) CancelOrder(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	orderID := c.Param("id")

	order, err := h.orders.Get(c.Request.Context(), orderID)
	if errors.Is(err, services.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	if order.CustomerID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}

	err = h.orders.UpdateStatus(c.Request.Context(), orderID, models.StatusCancelled, callerID, statemachine.ActorCustomer)
	switch {
	case errors.Is(err, services.ErrStatusAlreadySet):
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already cancelled"})
	case errors.Is(err, services.ErrInvalidStatusTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot cancel order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": orderID})
	}
}
