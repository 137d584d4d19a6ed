package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"water-delivery-api/models"
	"water-delivery-api/store"
)

// ProductService reads the external catalog. Results are memoized for
// ProductCacheTTL; catalog writes happen outside this system, so a change
// can be invisible here until the TTL expires.
type ProductService struct {
	products store.ProductStore
	cache    *Cache
}

func NewProductService(products store.ProductStore, cache *Cache) *ProductService {
	return &ProductService{products: products, cache: cache}
}

// List returns the full catalog, empty on store failure.
func (s *ProductService) List(ctx context.Context) []models.Product {
	key := s.cache.Key("products", "list")
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Product)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("product list failed")
		return []models.Product{}
	}
	if products == nil {
		products = []models.Product{}
	}
	s.cache.Set(key, products, ProductCacheTTL)
	return products
}

// GetByID returns one catalog entry, or nil when absent or unavailable.
func (s *ProductService) GetByID(ctx context.Context, productID string) *models.Product {
	key := s.cache.Key("products", "id", productID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Product)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("product_id", productID).Msg("product fetch failed")
		}
		return nil
	}
	s.cache.Set(key, product, ProductCacheTTL)
	return product
}
