package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"water-delivery-api/models"
)

// ProductStore is the read-only view of the Products catalog.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, productID string) (*models.Product, error)
}

type mongoProducts struct {
	db *mongo.Database
}

func NewProductStore(db *mongo.Database) ProductStore {
	return &mongoProducts{db: db}
}

func (s *mongoProducts) List(ctx context.Context) ([]models.Product, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	opts := options.Find().SetProjection(bson.M{"_id": 0})
	cursor, err := s.db.Collection(colProducts).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *mongoProducts) FindByID(ctx context.Context, productID string) (*models.Product, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	var product models.Product
	err := s.db.Collection(colProducts).FindOne(ctx, bson.M{"product_id": productID}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
