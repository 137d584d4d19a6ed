package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"water-delivery-api/models"
	"water-delivery-api/statemachine"
)

// GetStateMachineInfo documents the order lifecycle for API consumers
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()

	formatted := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		formatted = append(formatted, gin.H{
			"from":  t.From,
			"to":    t.To,
			"actor": t.Actor,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"states": []models.OrderStatus{
			models.StatusWaiting,
			models.StatusProcessing,
			models.StatusShipping,
			models.StatusCompleted,
			models.StatusCancelled,
		},
		"terminal_states": []models.OrderStatus{models.StatusCompleted, models.StatusCancelled},
		"transitions":     formatted,
	})
}
