package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"water-delivery-api/models"
	"water-delivery-api/services"
	"water-delivery-api/store"
)

type mockUserStore struct {
	findByIdentifierFunc func(ctx context.Context, identifier string) (*models.User, error)
	findByUserIDFunc     func(ctx context.Context, userID string) (*models.User, error)
	updateFieldsFunc     func(ctx context.Context, userID string, fields bson.M) error
	listFunc             func(ctx context.Context) ([]models.User, error)
}

func (m *mockUserStore) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return m.findByIdentifierFunc(ctx, identifier)
}

func (m *mockUserStore) FindByUserID(ctx context.Context, userID string) (*models.User, error) {
	return m.findByUserIDFunc(ctx, userID)
}

func (m *mockUserStore) UpdateFields(ctx context.Context, userID string, fields bson.M) error {
	return m.updateFieldsFunc(ctx, userID, fields)
}

func (m *mockUserStore) List(ctx context.Context) ([]models.User, error) {
	return m.listFunc(ctx)
}

func TestAuthService_Authenticate(t *testing.T) {
	hashed, err := services.HashPassword("sifre123")
	require.NoError(t, err)

	stored := &models.User{
		UserID:   "U001",
		Email:    "u1@example.com",
		FullName: "Ayşe Yılmaz",
		Password: hashed,
		Role:     models.RoleUser,
		IsActive: true,
	}

	tests := []struct {
		name       string
		identifier string
		password   string
		findFunc   func(ctx context.Context, identifier string) (*models.User, error)
		wantUser   bool
	}{
		{
			name:       "valid_credentials",
			identifier: "U001",
			password:   "sifre123",
			findFunc: func(ctx context.Context, identifier string) (*models.User, error) {
				copied := *stored
				return &copied, nil
			},
			wantUser: true,
		},
		{
			name:       "wrong_password",
			identifier: "U001",
			password:   "yanlis",
			findFunc: func(ctx context.Context, identifier string) (*models.User, error) {
				copied := *stored
				return &copied, nil
			},
			wantUser: false,
		},
		{
			name:       "unknown_identifier",
			identifier: "nobody@example.com",
			password:   "sifre123",
			findFunc: func(ctx context.Context, identifier string) (*models.User, error) {
				return nil, store.ErrNotFound
			},
			wantUser: false,
		},
		{
			name:       "store_unavailable_degrades_to_nil",
			identifier: "U001",
			password:   "sifre123",
			findFunc: func(ctx context.Context, identifier string) (*models.User, error) {
				return nil, store.ErrUnavailable
			},
			wantUser: false,
		},
		{
			name:       "store_error_degrades_to_nil",
			identifier: "U001",
			password:   "sifre123",
			findFunc: func(ctx context.Context, identifier string) (*models.User, error) {
				return nil, errors.New("network blip")
			},
			wantUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewAuthService(&mockUserStore{findByIdentifierFunc: tt.findFunc})
			user := svc.Authenticate(context.Background(), tt.identifier, tt.password)

			if !tt.wantUser {
				assert.Nil(t, user)
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, "U001", user.UserID)
			assert.Empty(t, user.Password, "sanitized user must not carry the credential")
		})
	}
}

func TestAuthService_LegacyPlaintextRecord(t *testing.T) {
	legacy := &models.User{UserID: "U002", Password: "duzmetin", Role: models.RoleUser}
	svc := services.NewAuthService(&mockUserStore{
		findByIdentifierFunc: func(ctx context.Context, identifier string) (*models.User, error) {
			copied := *legacy
			return &copied, nil
		},
	})

	assert.NotNil(t, svc.Authenticate(context.Background(), "U002", "duzmetin"))
	assert.Nil(t, svc.Authenticate(context.Background(), "U002", "Duzmetin"))
	assert.Nil(t, svc.Authenticate(context.Background(), "U002", ""))
}
