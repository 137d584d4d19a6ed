package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusWaiting    OrderStatus = "waiting"
	StatusProcessing OrderStatus = "processing"
	StatusShipping   OrderStatus = "shipping"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// ActiveStatuses are the in-flight states an order can still move out of.
var ActiveStatuses = []OrderStatus{StatusWaiting, StatusProcessing, StatusShipping}

// statusTokens maps localized filter tokens (as submitted by the Turkish UI)
// to canonical status codes. Lookup is case-insensitive.
var statusTokens = map[string]OrderStatus{
	"bekliyor":      StatusWaiting,
	"hazirlaniyor":  StatusProcessing,
	"hazırlanıyor":  StatusProcessing,
	"yolda":         StatusShipping,
	"teslim edildi": StatusCompleted,
	"iptal edildi":  StatusCancelled,
}

// NormalizeStatus resolves a localized or canonical status token to its
// canonical code. The sentinels "all"/"tümü" and the empty string mean "no
// filter" and normalize to "".
func NormalizeStatus(token string) OrderStatus {
	normalized := strings.ToLower(strings.TrimSpace(token))
	// Lowercasing U+0130 (İ) yields i + combining dot; fold it back so the
	// Turkish tokens resolve.
	normalized = strings.ReplaceAll(normalized, "i̇", "i")
	switch normalized {
	case "", "all", "tümü", "tumu":
		return ""
	}
	if status, ok := statusTokens[normalized]; ok {
		return status
	}
	return OrderStatus(normalized)
}

// Location is a snapshot of the user's delivery address at order time.
type Location struct {
	Address   string  `json:"address" bson:"address"`
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// OrderRequest describes what is being delivered. Demand is the
// quantity-derived delivery volume (quantity × product unit weight), distinct
// from total_price.
type OrderRequest struct {
	ProductID   string  `json:"product_id" bson:"product_id"`
	ProductName string  `json:"product_name" bson:"product_name"`
	Notes       string  `json:"notes" bson:"notes"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Demand      float64 `json:"demand" bson:"demand"`
}

// ChangeLogEntry is one append-only record in an order's change_log.
type ChangeLogEntry struct {
	Field     string      `json:"field" bson:"field"`
	OldValue  OrderStatus `json:"old_value" bson:"old_value"`
	NewValue  OrderStatus `json:"new_value" bson:"new_value"`
	ChangedAt time.Time   `json:"changed_at" bson:"changed_at"`
	ChangedBy string      `json:"changed_by" bson:"changed_by"`
}

// Order mirrors a document in the Orders collection. ready_time and due_date
// are stored as HH:MM text; assigned_vehicle and assigned_route_id are
// reserved for the route-planning tooling and never populated here.
type Order struct {
	ID              primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID         string             `json:"order_id" bson:"order_id"`
	CustomerID      string             `json:"customer_id" bson:"customer_id"`
	TaskID          string             `json:"task_id" bson:"task_id"`
	Location        Location           `json:"location" bson:"location"`
	ReadyTime       string             `json:"ready_time" bson:"ready_time"`
	DueDate         string             `json:"due_date" bson:"due_date"`
	OrderDate       time.Time          `json:"order_date" bson:"order_date"`
	ServiceTime     int                `json:"service_time" bson:"service_time"`
	Request         OrderRequest       `json:"request" bson:"request"`
	Status          OrderStatus        `json:"status" bson:"status"`
	ChangeLog       []ChangeLogEntry   `json:"change_log" bson:"change_log"`
	AssignedVehicle *string            `json:"assigned_vehicle" bson:"assigned_vehicle"`
	AssignedRouteID *string            `json:"assigned_route_id" bson:"assigned_route_id"`
	PriorityLevel   int                `json:"priority_level" bson:"priority_level"`
	TotalPrice      float64            `json:"total_price" bson:"total_price"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// HistoryEntry is an append-only audit record in the OrderHistory collection,
// written whenever an order's status changes.
type HistoryEntry struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	OrderID    string             `json:"order_id" bson:"order_id"`
	CustomerID string             `json:"customer_id" bson:"customer_id"`
	Status     OrderStatus        `json:"status" bson:"status"`
	Action     string             `json:"action" bson:"action"`
	ActionBy   string             `json:"action_by" bson:"action_by"`
	ActionTime time.Time          `json:"action_time" bson:"action_time"`
}

// OrderCounts is the per-user dashboard aggregate. Waiting collapses the
// three in-flight statuses. A store failure is reported as all -1 so callers
// can tell "no data" from "error".
type OrderCounts struct {
	Total     int64 `json:"total"`
	Waiting   int64 `json:"waiting"`
	Completed int64 `json:"completed"`
}
