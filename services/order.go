package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"water-delivery-api/models"
	"water-delivery-api/statemachine"
	"water-delivery-api/store"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrStatusAlreadySet        = errors.New("status is already set to the desired value")
	ErrUnknownStatus           = errors.New("unknown order status")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// OrderService owns the order lifecycle: creation, filtered retrieval,
// per-user status counts, validated status transitions, and the audit trail.
type OrderService struct {
	orders  store.OrderStore
	history store.HistoryStore
	cache   *Cache
}

func NewOrderService(orders store.OrderStore, history store.HistoryStore, cache *Cache) *OrderService {
	return &OrderService{orders: orders, history: history, cache: cache}
}

// NewOrderID generates an order id of the form order_<date>_<suffix>.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("order_%s_%s", now.Format("20060102"), uuid.NewString()[:3])
}

// NewTaskID generates the companion task id. It is carried on the document
// for the route-planning tooling and unused downstream here.
func NewTaskID(now time.Time) string {
	return fmt.Sprintf("task_%s_%s", now.Format("20060102"), uuid.NewString()[:3])
}

// normalizeClock reduces time-like text to HH:MM.
func normalizeClock(value string) string {
	if value == "" {
		return ""
	}
	for _, layout := range []string{"15:04", "15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04")
		}
	}
	return value
}

// Create persists a new order. Delivery-window text is normalized to HH:MM
// and created_at/updated_at/order_date are stamped with the current UTC
// instant. Quantity and window ordering were already enforced by the caller;
// this service trusts its input. The write is never retried.
func (s *OrderService) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.OrderID == "" {
		order.OrderID = NewOrderID(now)
	}
	if order.TaskID == "" {
		order.TaskID = NewTaskID(now)
	}
	if order.Status == "" {
		order.Status = models.StatusWaiting
	}
	if order.ChangeLog == nil {
		order.ChangeLog = []models.ChangeLogEntry{}
	}
	order.ReadyTime = normalizeClock(order.ReadyTime)
	order.DueDate = normalizeClock(order.DueDate)
	order.CreatedAt = now
	order.UpdatedAt = now
	order.OrderDate = now

	if err := s.orders.Insert(ctx, order); err != nil {
		log.Error().Err(err).Interface("order", order).Msg("order insert failed")
		return fmt.Errorf("create order %s: %w", order.OrderID, err)
	}
	return nil
}

// Get returns one order by its order_id.
func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.FindByOrderID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

// List returns a customer's orders newest-first. statusToken may be a
// canonical code or a localized token, matched case-insensitively; "all",
// "tümü" or empty disables the status filter. from/to restrict order_date
// inclusively and are widened to UTC day boundaries.
func (s *OrderService) List(ctx context.Context, customerID, statusToken string, from, to *time.Time) []models.Order {
	filter := store.OrderFilter{
		CustomerID: customerID,
		Status:     models.NormalizeStatus(statusToken),
	}
	if from != nil {
		start := startOfDay(*from)
		filter.From = &start
	}
	if to != nil {
		end := endOfDay(*to)
		filter.To = &end
	}

	orders, err := s.orders.Find(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("order list failed")
		return []models.Order{}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders
}

// CountByStatus returns the per-user dashboard aggregate: total orders,
// in-flight orders (waiting+processing+shipping) and completed orders. On a
// store failure every field is -1 so the caller can tell "no data" from
// "error"; no error escapes. Results are memoized for CountsCacheTTL.
func (s *OrderService) CountByStatus(ctx context.Context, customerID string) models.OrderCounts {
	key := s.cache.Key("order_counts", customerID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(models.OrderCounts)
	}

	counts, err := s.countByStatus(ctx, customerID)
	if err != nil {
		log.Error().Err(err).Str("customer_id", customerID).Msg("order count failed")
		return models.OrderCounts{Total: -1, Waiting: -1, Completed: -1}
	}

	s.cache.Set(key, counts, CountsCacheTTL)
	return counts
}

func (s *OrderService) countByStatus(ctx context.Context, customerID string) (models.OrderCounts, error) {
	total, err := s.orders.Count(ctx, customerID)
	if err != nil {
		return models.OrderCounts{}, err
	}
	waiting, err := s.orders.Count(ctx, customerID, models.ActiveStatuses...)
	if err != nil {
		return models.OrderCounts{}, err
	}
	completed, err := s.orders.Count(ctx, customerID, models.StatusCompleted)
	if err != nil {
		return models.OrderCounts{}, err
	}
	return models.OrderCounts{Total: total, Waiting: waiting, Completed: completed}, nil
}

// UpdateStatus applies a validated status transition. The current status is
// read first so the transition can be checked against the state machine and
// the change_log entry records the real prior value. Setting the status an
// order already has is a no-op rejected with ErrStatusAlreadySet; nothing is
// appended to the audit trail in that case.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, newStatus models.OrderStatus, actorID, actor string) error {
	return s.transition(ctx, orderID, newStatus, actorID, actor, false)
}

// ForceStatus is the admin override: it skips transition validation but
// still refuses unknown statuses and same-status no-ops, and still writes
// the audit trail.
func (s *OrderService) ForceStatus(ctx context.Context, orderID string, newStatus models.OrderStatus, actorID string) error {
	return s.transition(ctx, orderID, newStatus, actorID, statemachine.ActorAdmin, true)
}

func (s *OrderService) transition(ctx context.Context, orderID string, newStatus models.OrderStatus, actorID, actor string, force bool) error {
	if !statemachine.KnownStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	order, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == newStatus {
		return ErrStatusAlreadySet
	}
	if !force {
		if err := statemachine.CanTransition(order.Status, newStatus, actor); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidStatusTransition, err)
		}
	}

	now := time.Now().UTC()
	entry := models.ChangeLogEntry{
		Field:     "status",
		OldValue:  order.Status,
		NewValue:  newStatus,
		ChangedAt: now,
		ChangedBy: actorID,
	}
	modified, err := s.orders.ApplyStatus(ctx, orderID, newStatus, entry)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Str("status", string(newStatus)).Msg("status update failed")
		return fmt.Errorf("update order %s: %w", orderID, err)
	}
	if !modified {
		// Raced with a concurrent writer; last write wins at the store, so a
		// non-modifying match means the value was already applied.
		return ErrStatusAlreadySet
	}

	action := fmt.Sprintf("%s -> %s", order.Status, newStatus)
	if force {
		action = "[admin override] " + action
	}
	historyEntry := models.HistoryEntry{
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		Status:     newStatus,
		Action:     action,
		ActionBy:   actorID,
		ActionTime: now,
	}
	if err := s.history.Append(ctx, historyEntry); err != nil {
		// The order write already succeeded; an order without its history
		// entry is an accepted risk, not a failed update.
		log.Error().Err(err).Interface("entry", historyEntry).Msg("history append failed")
	}
	return nil
}

// History returns audit entries filtered by order and/or customer,
// newest-first. No filter returns all history.
func (s *OrderService) History(ctx context.Context, orderID, customerID string) []models.HistoryEntry {
	entries, err := s.history.Find(ctx, orderID, customerID)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("history fetch failed")
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries
}

// ListAll returns every order newest-first, for the admin views.
func (s *OrderService) ListAll(ctx context.Context) []models.Order {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("admin order list failed")
		return []models.Order{}
	}
	return orders
}

// ListActive returns all in-flight orders newest-first.
func (s *OrderService) ListActive(ctx context.Context) []models.Order {
	orders, err := s.orders.FindActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("active order list failed")
		return []models.Order{}
	}
	return orders
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
