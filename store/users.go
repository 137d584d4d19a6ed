package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"water-delivery-api/models"
)

// UserStore is the collection-scoped view of Users that the auth and profile
// services depend on.
type UserStore interface {
	// FindByIdentifier looks a user up by user_id or email, exact match.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
	// UpdateFields applies a partial $set to the user document and stamps
	// nothing itself; callers own updated_at.
	UpdateFields(ctx context.Context, userID string, fields bson.M) error
	// List returns all users sorted by user_id, credentials projected out.
	List(ctx context.Context) ([]models.User, error)
}

type mongoUsers struct {
	db *mongo.Database
}

// NewUserStore wraps the shared database handle. A nil handle is accepted;
// every operation then returns ErrUnavailable.
func NewUserStore(db *mongo.Database) UserStore {
	return &mongoUsers{db: db}
}

func (s *mongoUsers) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	filter := bson.M{"$or": bson.A{
		bson.M{"user_id": identifier},
		bson.M{"email": identifier},
	}}
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, filter, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	var user models.User
	err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) UpdateFields(ctx context.Context, userID string, fields bson.M) error {
	if s.db == nil {
		return ErrUnavailable
	}
	result, err := s.db.Collection(colUsers).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) List(ctx context.Context) ([]models.User, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "password": 0}).
		SetSort(bson.M{"user_id": 1})
	cursor, err := s.db.Collection(colUsers).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
