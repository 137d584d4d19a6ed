package statemachine

import (
	"errors"

	"water-delivery-api/models"
)

// Actors that may drive order transitions.
const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition. The
// lifecycle is linear; only waiting orders can be cancelled, and only
// dispatch (admin) moves an order forward.
var validTransitions = []Transition{
	{From: models.StatusWaiting, To: models.StatusProcessing, Actor: ActorAdmin},
	{From: models.StatusProcessing, To: models.StatusShipping, Actor: ActorAdmin},
	{From: models.StatusShipping, To: models.StatusCompleted, Actor: ActorAdmin},
	// The owning customer or an admin can cancel while still waiting
	{From: models.StatusWaiting, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusWaiting, To: models.StatusCancelled, Actor: ActorAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// KnownStatus reports whether the status is part of the lifecycle at all.
func KnownStatus(status models.OrderStatus) bool {
	switch status {
	case models.StatusWaiting, models.StatusProcessing, models.StatusShipping,
		models.StatusCompleted, models.StatusCancelled:
		return true
	}
	return false
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
