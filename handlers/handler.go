package handlers

import "water-delivery-api/services"

// Handler carries the service dependencies for all route handlers.
type Handler struct {
	auth     *services.AuthService
	orders   *services.OrderService
	profile  *services.ProfileService
	products *services.ProductService
}

func New(auth *services.AuthService, orders *services.OrderService, profile *services.ProfileService, products *services.ProductService) *Handler {
	return &Handler{
		auth:     auth,
		orders:   orders,
		profile:  profile,
		products: products,
	}
}
