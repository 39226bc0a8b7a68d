package statemachine_test

import (
	"testing"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/statemachine"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	t.Run("manager ships a pending order", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, statemachine.CanTransition(models.StatusPending, models.StatusShipped, models.RoleManager))
	})

	t.Run("sales rep cannot ship", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, statemachine.CanTransition(models.StatusPending, models.StatusShipped, models.RoleSalesRep))
	})

	t.Run("sales rep cancels a pending order", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, statemachine.CanTransition(models.StatusPending, models.StatusCancelled, models.RoleSalesRep))
	})

	t.Run("delivered is not reachable manually", func(t *testing.T) {
		t.Parallel()
		for _, role := range []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleSalesRep, models.RoleDriver} {
			assert.Error(t, statemachine.CanTransition(models.StatusPending, models.StatusDelivered, role))
			assert.Error(t, statemachine.CanTransition(models.StatusShipped, models.StatusDelivered, role))
		}
	})

	t.Run("terminal states have no manual exits", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusDelivered))
		assert.Empty(t, statemachine.ValidTransitionsFrom(models.StatusCancelled))
	})
}

func TestValidTransitionsFrom(t *testing.T) {
	t.Parallel()
	nexts := statemachine.ValidTransitionsFrom(models.StatusPending)
	assert.ElementsMatch(t, []models.OrderStatus{models.StatusShipped, models.StatusCancelled}, nexts)
}
