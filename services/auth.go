package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"water-delivery-api/models"
	"water-delivery-api/store"
)

// AuthService validates credentials against the Users collection. It is
// read-only and has no lockout or rate limiting.
type AuthService struct {
	users store.UserStore
}

func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

// Authenticate looks a user up by user_id or email (exact, case-sensitive)
// and verifies the password against the stored credential. It returns a
// sanitized copy of the user, or nil on no match, password mismatch, or any
// store failure — errors never propagate past this boundary.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) *models.User {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("identifier", identifier).Msg("auth lookup failed")
		}
		return nil
	}

	if !ParseCredential(user.Password).Verify(password) {
		return nil
	}

	sanitized := user.Sanitized()
	return &sanitized
}
