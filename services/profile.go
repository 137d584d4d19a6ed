package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"water-delivery-api/models"
	"water-delivery-api/store"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileService mutates user profile fields. Users are provisioned
// externally and never deleted here.
type ProfileService struct {
	users store.UserStore
}

func NewProfileService(users store.UserStore) *ProfileService {
	return &ProfileService{users: users}
}

// Update applies a partial field update to a user document and stamps
// updated_at. A non-empty password is rehashed before storage; an empty one
// is dropped from the update set so an existing credential is never
// overwritten with an empty string. On success the post-update document is
// returned with credential material stripped.
func (s *ProfileService) Update(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	fields := bson.M{}
	setString := func(key string, value *string) {
		if value != nil {
			fields[key] = *value
		}
	}
	setString("email", update.Email)
	setString("full_name", update.FullName)
	setString("phone_number", update.PhoneNumber)
	setString("address", update.Address)
	setString("profile_picture", update.ProfilePicture)
	if update.Latitude != nil {
		fields["latitude"] = *update.Latitude
	}
	if update.Longitude != nil {
		fields["longitude"] = *update.Longitude
	}
	if update.Password != nil && *update.Password != "" {
		hashed, err := HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = hashed
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		log.Error().Err(err).Str("user_id", userID).Msg("profile update failed")
		return nil, fmt.Errorf("update profile %s: %w", userID, err)
	}

	updated, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload profile %s: %w", userID, err)
	}
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// Get returns a sanitized profile, or nil when the user does not exist or
// the store is unavailable.
func (s *ProfileService) Get(ctx context.Context, userID string) *models.User {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("user_id", userID).Msg("profile fetch failed")
		}
		return nil
	}
	sanitized := user.Sanitized()
	return &sanitized
}

// ListUsers returns all users sorted by user_id, passwords projected out.
func (s *ProfileService) ListUsers(ctx context.Context) []models.User {
	users, err := s.users.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("user list failed")
		return []models.User{}
	}
	return users
}
