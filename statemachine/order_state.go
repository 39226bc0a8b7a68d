package statemachine

import (
	"errors"

	"github.com/lithursan/webapp/models"
)

// Transition defines a valid manual state change and who can perform it.
// Delivery is not listed here: orders reach Delivered only through the
// finalize workflow, which carries its own guards.
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Manager or admin ships a pending order
	{From: models.StatusPending, To: models.StatusShipped, Role: models.RoleManager},
	{From: models.StatusPending, To: models.StatusShipped, Role: models.RoleAdmin},
	// Pending orders can be cancelled by the rep who took them or above
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleSalesRep},
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleManager},
	{From: models.StatusPending, To: models.StatusCancelled, Role: models.RoleAdmin},
	// Shipped orders can only be pulled back by manager or admin
	{From: models.StatusShipped, To: models.StatusCancelled, Role: models.RoleManager},
	{From: models.StatusShipped, To: models.StatusCancelled, Role: models.RoleAdmin},
	{From: models.StatusShipped, To: models.StatusPending, Role: models.RoleManager},
	{From: models.StatusShipped, To: models.StatusPending, Role: models.RoleAdmin},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role models.UserRole
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Role}] = true
	}
	return m
}()

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

// CanTransition checks if a given role can move an order from one state to another
func CanTransition(from, to models.OrderStatus, role models.UserRole) error {
	key := transitionKey{From: from, To: to, Role: role}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for role '" + string(role) + "'. " +
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
