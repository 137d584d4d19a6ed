package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"water-delivery-api/models"
)

// OrderFilter narrows order reads. Zero values disable a criterion; From/To
// are inclusive instants on order_date computed by the caller.
type OrderFilter struct {
	CustomerID string
	Status     models.OrderStatus
	From       *time.Time
	To         *time.Time
}

// OrderStore is the collection-scoped view of Orders.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	// Find returns matching orders newest-first by created_at.
	Find(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindActive(ctx context.Context) ([]models.Order, error)
	// Count counts a customer's orders, optionally restricted to a status set.
	Count(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error)
	// ApplyStatus sets the status and updated_at and appends one change_log
	// entry. Reports whether a document was matched and modified.
	ApplyStatus(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error)
}

// HistoryStore is the collection-scoped view of OrderHistory. Entries are
// append-only and read-only thereafter.
type HistoryStore interface {
	Append(ctx context.Context, entry models.HistoryEntry) error
	// Find filters by order_id and/or customer_id; both empty returns all
	// history, newest-first by action_time.
	Find(ctx context.Context, orderID, customerID string) ([]models.HistoryEntry, error)
}

type mongoOrders struct {
	db *mongo.Database
}

func NewOrderStore(db *mongo.Database) OrderStore {
	return &mongoOrders{db: db}
}

func (s *mongoOrders) Insert(ctx context.Context, order *models.Order) error {
	if s.db == nil {
		return ErrUnavailable
	}
	result, err := s.db.Collection(colOrders).InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if result.InsertedID == nil {
		return ErrNotAcknowledged
	}
	return nil
}

func (s *mongoOrders) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	var order models.Order
	err := s.db.Collection(colOrders).FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *mongoOrders) Find(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := bson.M{"customer_id": filter.CustomerID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["order_date"] = dateRange
	}
	return s.find(ctx, query, nil)
}

func (s *mongoOrders) FindAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{}, bson.M{"_id": 0})
}

func (s *mongoOrders) FindActive(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{"status": bson.M{"$in": models.ActiveStatuses}}, bson.M{"_id": 0})
}

func (s *mongoOrders) find(ctx context.Context, query, projection bson.M) ([]models.Order, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if projection != nil {
		opts.SetProjection(projection)
	}
	cursor, err := s.db.Collection(colOrders).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *mongoOrders) Count(ctx context.Context, customerID string, statuses ...models.OrderStatus) (int64, error) {
	if s.db == nil {
		return 0, ErrUnavailable
	}
	query := bson.M{"customer_id": customerID}
	switch len(statuses) {
	case 0:
	case 1:
		query["status"] = statuses[0]
	default:
		query["status"] = bson.M{"$in": statuses}
	}
	return s.db.Collection(colOrders).CountDocuments(ctx, query)
}

func (s *mongoOrders) ApplyStatus(ctx context.Context, orderID string, status models.OrderStatus, entry models.ChangeLogEntry) (bool, error) {
	if s.db == nil {
		return false, ErrUnavailable
	}
	result, err := s.db.Collection(colOrders).UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{
			"$set": bson.M{
				"status":     status,
				"updated_at": entry.ChangedAt,
			},
			"$push": bson.M{"change_log": entry},
		},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

type mongoHistory struct {
	db *mongo.Database
}

func NewHistoryStore(db *mongo.Database) HistoryStore {
	return &mongoHistory{db: db}
}

func (s *mongoHistory) Append(ctx context.Context, entry models.HistoryEntry) error {
	if s.db == nil {
		return ErrUnavailable
	}
	result, err := s.db.Collection(colHistory).InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if result.InsertedID == nil {
		return ErrNotAcknowledged
	}
	return nil
}

func (s *mongoHistory) Find(ctx context.Context, orderID, customerID string) ([]models.HistoryEntry, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	query := bson.M{}
	if orderID != "" {
		query["order_id"] = orderID
	}
	if customerID != "" {
		query["customer_id"] = customerID
	}
	opts := options.Find().SetSort(bson.M{"action_time": -1})
	cursor, err := s.db.Collection(colHistory).Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.HistoryEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
