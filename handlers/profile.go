package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"water-delivery-api/middleware"
	"water-delivery-api/models"
	"water-delivery-api/services"
)

type UpdateProfileRequest struct {
	models.ProfileUpdate
	PasswordConfirm *string `json:"password_confirm,omitempty"`
}

// UpdateProfile applies a partial update to the caller's own profile. A new
// password must be confirmed; an empty password field never clears the
// stored credential.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Password != nil && *req.Password != "" {
		if req.PasswordConfirm == nil || *req.PasswordConfirm != *req.Password {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password confirmation does not match"})
			return
		}
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude out of range"})
		return
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Longitude out of range"})
		return
	}

	user, err := h.profile.Update(c.Request.Context(), userID, req.ProfileUpdate)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
