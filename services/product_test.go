package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"water-delivery-api/models"
	"water-delivery-api/services"
	"water-delivery-api/store"
)

type mockProductStore struct {
	listFunc     func(ctx context.Context) ([]models.Product, error)
	findByIDFunc func(ctx context.Context, productID string) (*models.Product, error)
}

func (m *mockProductStore) List(ctx context.Context) ([]models.Product, error) {
	return m.listFunc(ctx)
}

func (m *mockProductStore) FindByID(ctx context.Context, productID string) (*models.Product, error) {
	return m.findByIDFunc(ctx, productID)
}

var damacana = models.Product{
	ProductID: "SU_0",
	Name:      "19L Damacana Su",
	Price:     10.0,
	Weight:    models.ProductWeight{Value: 19},
}

func TestProductService_List_Memoized(t *testing.T) {
	calls := 0
	products := &mockProductStore{
		listFunc: func(ctx context.Context) ([]models.Product, error) {
			calls++
			return []models.Product{damacana}, nil
		},
	}
	svc := services.NewProductService(products, services.NewCache())

	first := svc.List(context.Background())
	second := svc.List(context.Background())

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "second read is served from cache within the TTL")
}

func TestProductService_GetByID(t *testing.T) {
	products := &mockProductStore{
		findByIDFunc: func(ctx context.Context, productID string) (*models.Product, error) {
			if productID == "SU_0" {
				copied := damacana
				return &copied, nil
			}
			return nil, store.ErrNotFound
		},
	}
	svc := services.NewProductService(products, nil)

	found := svc.GetByID(context.Background(), "SU_0")
	require.NotNil(t, found)
	assert.Equal(t, 19.0, found.Weight.Value)

	assert.Nil(t, svc.GetByID(context.Background(), "YOK"))
}

func TestProductService_List_DegradesToEmpty(t *testing.T) {
	products := &mockProductStore{
		listFunc: func(ctx context.Context) ([]models.Product, error) {
			return nil, store.ErrUnavailable
		},
	}
	svc := services.NewProductService(products, nil)

	result := svc.List(context.Background())
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
