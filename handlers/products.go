package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProducts returns the full catalog (no auth needed)
func (h *Handler) ListProducts(c *gin.Context) {
	products := h.products.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// GetProduct returns a single catalog entry
func (h *Handler) GetProduct(c *gin.Context) {
	product := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
