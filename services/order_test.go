package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"water-delivery-api/models"
	"water-delivery-api/services"
	"water-delivery-api/statemachine"
	"water-delivery-api/store"
)

type mockOrderStore struct {
	insertFunc        func(ctx context.Context, order *models.Order) error
	findByOrderIDFunc func(ctx context.Context, orderID string) (*models.Order, error)
	findFunc          func(ctx context.Context, filter store.OrderFilter) ([]models.Order, error)
	findAllFunc       func(ctx context.Context) ([]models.Order, error)
	findActiveFunc    func(ctx context.Context) ([]models.Order, error)
	countFunc         func(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error)
	applyStatusFunc   func(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error)
}

func (m *mockOrderStore) Insert(ctx context.Context, order *models.Order) error {
	return m.insertFunc(ctx, order)
}

func (m *mockOrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	return m.findByOrderIDFunc(ctx, orderID)
}

func (m *mockOrderStore) Find(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	return m.findFunc(ctx, filter)
}

func (m *mockOrderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	return m.findAllFunc(ctx)
}

func (m *mockOrderStore) FindActive(ctx context.Context) ([]models.Order, error) {
	return m.findActiveFunc(ctx)
}

func (m *mockOrderStore) Count(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error) {
	return m.countFunc(ctx, customerID, statuses...)
}

func (m *mockOrderStore) ApplyStatus(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error) {
	return m.applyStatusFunc(ctx, orderID, status, entry)
}

type mockHistoryStore struct {
	appendFunc func(ctx context.Context, entry models.HistoryEntry) error
	findFunc   func(ctx context.Context, orderID, customerID string) ([]models.HistoryEntry, error)
}

func (m *mockHistoryStore) Append(ctx context.Context, entry models.HistoryEntry) error {
	return m.appendFunc(ctx, entry)
}

func (m *mockHistoryStore) Find(ctx context.Context, orderID, customerID string) ([]models.HistoryEntry, error) {
	return m.findFunc(ctx, orderID, customerID)
}

func TestOrderService_Create(t *testing.T) {
	var inserted *models.Order
	orders := &mockOrderStore{
		insertFunc: func(ctx context.Context, order *models.Order) error {
			inserted = order
			return nil
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

	order := &models.Order{
		CustomerID: "U001",
		ReadyTime:  "09:00:00",
		DueDate:    "10:00",
		Request:    models.OrderRequest{ProductID: "SU_0", Quantity: 2, Demand: 38},
		TotalPrice: 20.0,
	}
	before := time.Now().UTC()
	require.NoError(t, svc.Create(context.Background(), order))
	after := time.Now().UTC()

	require.NotNil(t, inserted)
	assert.True(t, strings.HasPrefix(inserted.OrderID, "order_"))
	assert.True(t, strings.HasPrefix(inserted.TaskID, "task_"))
	assert.Equal(t, models.StatusWaiting, inserted.Status)
	assert.Equal(t, "09:00", inserted.ReadyTime, "seconds are trimmed to HH:MM")
	assert.Equal(t, "10:00", inserted.DueDate)
	assert.NotNil(t, inserted.ChangeLog)
	assert.Empty(t, inserted.ChangeLog)

	assert.Equal(t, inserted.CreatedAt, inserted.UpdatedAt)
	assert.Equal(t, inserted.CreatedAt, inserted.OrderDate)
	assert.False(t, inserted.CreatedAt.Before(before))
	assert.False(t, inserted.CreatedAt.After(after))
}

func TestOrderService_Create_InsertFailure(t *testing.T) {
	orders := &mockOrderStore{
		insertFunc: func(ctx context.Context, order *models.Order) error {
			return store.ErrNotAcknowledged
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

	err := svc.Create(context.Background(), &models.Order{CustomerID: "U001"})
	assert.ErrorIs(t, err, store.ErrNotAcknowledged)
}

func TestOrderService_List_FilterNormalization(t *testing.T) {
	var captured store.OrderFilter
	orders := &mockOrderStore{
		findFunc: func(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
			captured = filter
			return []models.Order{{OrderID: "order_20260830_abc"}}, nil
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

	from := time.Date(2026, 8, 1, 14, 30, 0, 0, time.UTC)
	to := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)

	result := svc.List(context.Background(), "U001", "Bekliyor", &from, &to)
	require.Len(t, result, 1)

	assert.Equal(t, "U001", captured.CustomerID)
	assert.Equal(t, models.StatusWaiting, captured.Status, "localized token resolves to canonical code")
	require.NotNil(t, captured.From)
	require.NotNil(t, captured.To)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *captured.From, "range start widens to start of day")
	assert.Equal(t, 23, captured.To.Hour(), "range end widens to end of day")
	assert.Equal(t, 30, captured.To.Day())
}

func TestOrderService_List_SentinelDisablesStatusFilter(t *testing.T) {
	for _, token := range []string{"", "all", "Tümü"} {
		var captured store.OrderFilter
		orders := &mockOrderStore{
			findFunc: func(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
				captured = filter
				return nil, nil
			},
		}
		svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

		result := svc.List(context.Background(), "U001", token, nil, nil)
		assert.Empty(t, captured.Status, "token %q must disable the filter", token)
		assert.NotNil(t, result, "nil store result is normalized to an empty slice")
	}
}

func TestOrderService_List_StoreFailureYieldsEmpty(t *testing.T) {
	orders := &mockOrderStore{
		findFunc: func(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
			return nil, store.ErrUnavailable
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

	result := svc.List(context.Background(), "U001", "", nil, nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestOrderService_CountByStatus(t *testing.T) {
	orders := &mockOrderStore{
		countFunc: func(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error) {
			switch len(statuses) {
			case 0:
				return 5, nil
			case 1:
				return 1, nil // completed
			default:
				return 3, nil // waiting + processing + shipping
			}
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

	counts := svc.CountByStatus(context.Background(), "U001")
	assert.Equal(t, models.OrderCounts{Total: 5, Waiting: 3, Completed: 1}, counts)
}

func TestOrderService_CountByStatus_FailureSentinel(t *testing.T) {
	orders := &mockOrderStore{
		countFunc: func(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error) {
			return 0, store.ErrUnavailable
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

	counts := svc.CountByStatus(context.Background(), "U001")
	assert.Equal(t, models.OrderCounts{Total: -1, Waiting: -1, Completed: -1}, counts)
}

func TestOrderService_CountByStatus_Memoized(t *testing.T) {
	calls := 0
	orders := &mockOrderStore{
		countFunc: func(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error) {
			calls++
			return 2, nil
		},
	}
	svc := services.NewOrderService(orders, &mockHistoryStore{}, services.NewCache())

	first := svc.CountByStatus(context.Background(), "U001")
	second := svc.CountByStatus(context.Background(), "U001")

	assert.Equal(t, first, second)
	assert.Equal(t, 3, calls, "three count queries, served from cache afterwards")
}

func TestOrderService_UpdateStatus(t *testing.T) {
	waitingOrder := func() *models.Order {
		return &models.Order{OrderID: "order_20260830_abc", CustomerID: "U001", Status: models.StatusWaiting}
	}

	t.Run("customer_cancels_waiting_order", func(t *testing.T) {
		var appliedEntry models.ChangeLogEntry
		var history []models.HistoryEntry
		orders := &mockOrderStore{
			findByOrderIDFunc: func(ctx context.Context, orderID string) (*models.Order, error) {
				return waitingOrder(), nil
			},
			applyStatusFunc: func(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error) {
				appliedEntry = entry
				return true, nil
			},
		}
		hist := &mockHistoryStore{
			appendFunc: func(ctx context.Context, entry models.HistoryEntry) error {
				history = append(history, entry)
				return nil
			},
		}
		svc := services.NewOrderService(orders, hist, nil)

		err := svc.UpdateStatus(context.Background(), "order_20260830_abc", models.StatusCancelled, "U001", statemachine.ActorCustomer)
		require.NoError(t, err)

		assert.Equal(t, "status", appliedEntry.Field)
		assert.Equal(t, models.StatusWaiting, appliedEntry.OldValue, "change log records the real prior status")
		assert.Equal(t, models.StatusCancelled, appliedEntry.NewValue)
		assert.Equal(t, "U001", appliedEntry.ChangedBy)

		require.Len(t, history, 1)
		assert.Equal(t, models.StatusCancelled, history[0].Status)
		assert.Equal(t, "U001", history[0].CustomerID)
		assert.Equal(t, "U001", history[0].ActionBy)
		assert.Equal(t, appliedEntry.ChangedAt, history[0].ActionTime)
	})

	t.Run("same_status_is_rejected_noop", func(t *testing.T) {
		applied, appended := 0, 0
		orders := &mockOrderStore{
			findByOrderIDFunc: func(ctx context.Context, orderID string) (*models.Order, error) {
				return waitingOrder(), nil
			},
			applyStatusFunc: func(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error) {
				applied++
				return true, nil
			},
		}
		hist := &mockHistoryStore{
			appendFunc: func(ctx context.Context, entry models.HistoryEntry) error {
				appended++
				return nil
			},
		}
		svc := services.NewOrderService(orders, hist, nil)

		err := svc.UpdateStatus(context.Background(), "order_20260830_abc", models.StatusWaiting, "U001", statemachine.ActorCustomer)
		assert.ErrorIs(t, err, services.ErrStatusAlreadySet)
		assert.Zero(t, applied, "no write happens for a no-op")
		assert.Zero(t, appended, "history ordering is never corrupted by no-ops")
	})

	t.Run("illegal_transition_rejected", func(t *testing.T) {
		orders := &mockOrderStore{
			findByOrderIDFunc: func(ctx context.Context, orderID string) (*models.Order, error) {
				return &models.Order{OrderID: orderID, CustomerID: "U001", Status: models.StatusShipping}, nil
			},
		}
		svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

		err := svc.UpdateStatus(context.Background(), "order_20260830_abc", models.StatusCancelled, "U001", statemachine.ActorCustomer)
		assert.ErrorIs(t, err, services.ErrInvalidStatusTransition)
	})

	t.Run("unknown_status_rejected", func(t *testing.T) {
		svc := services.NewOrderService(&mockOrderStore{}, &mockHistoryStore{}, nil)

		err := svc.UpdateStatus(context.Background(), "order_20260830_abc", "delivered", "U001", statemachine.ActorCustomer)
		assert.ErrorIs(t, err, services.ErrUnknownStatus)
	})

	t.Run("missing_order", func(t *testing.T) {
		orders := &mockOrderStore{
			findByOrderIDFunc: func(ctx context.Context, orderID string) (*models.Order, error) {
				return nil, store.ErrNotFound
			},
		}
		svc := services.NewOrderService(orders, &mockHistoryStore{}, nil)

		err := svc.UpdateStatus(context.Background(), "order_yok", models.StatusCancelled, "U001", statemachine.ActorCustomer)
		assert.ErrorIs(t, err, services.ErrOrderNotFound)
	})
}

func TestOrderService_ForceStatus_SkipsTransitionValidation(t *testing.T) {
	var history []models.HistoryEntry
	orders := &mockOrderStore{
		findByOrderIDFunc: func(ctx context.Context, orderID string) (*models.Order, error) {
			return &models.Order{OrderID: orderID, CustomerID: "U001", Status: models.StatusShipping}, nil
		},
		applyStatusFunc: func(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error) {
			return true, nil
		},
	}
	hist := &mockHistoryStore{
		appendFunc: func(ctx context.Context, entry models.HistoryEntry) error {
			history = append(history, entry)
			return nil
		},
	}
	svc := services.NewOrderService(orders, hist, nil)

	err := svc.ForceStatus(context.Background(), "order_20260830_abc", models.StatusCancelled, "ADMIN1")
	require.NoError(t, err)

	require.Len(t, history, 1)
	assert.Contains(t, history[0].Action, "[admin override]")
	assert.Equal(t, "ADMIN1", history[0].ActionBy)
}

func TestOrderService_History_DegradesToEmpty(t *testing.T) {
	hist := &mockHistoryStore{
		findFunc: func(ctx context.Context, orderID, customerID string) ([]models.HistoryEntry, error) {
			return nil, store.ErrUnavailable
		},
	}
	svc := services.NewOrderService(&mockOrderStore{}, hist, nil)

	entries := svc.History(context.Background(), "order_20260830_abc", "")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
