package workflow_test

import (
	"testing"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveBalances(t *testing.T) {
	t.Run("derives credit and upserts collections", func(t *testing.T) {
		e := newEnv()
		e.orders = newFakeOrders(models.Order{ID: "ORD001", CustomerID: "CUS001", TotalAmount: 1000})
		s := &workflow.BalanceSaver{Stores: e.stores()}

		saved, err := s.Save("ORD001", 300, 200, false)
		require.NoError(t, err)
		assert.InDelta(t, 300, saved.ChequeBalance, 1e-9)
		assert.InDelta(t, 500, saved.CreditBalance, 1e-9)
		assert.InDelta(t, 800, saved.OutstandingBalance(), 1e-9)

		require.Len(t, e.collections.upserts, 2)
		cheque := e.collections.upserts["ORD001/"+models.CollectionCheque]
		assert.InDelta(t, 300, cheque.Amount, 1e-9)
		assert.Equal(t, "pending", cheque.Status)
		assert.Equal(t, "CUS001", cheque.CustomerID)
		credit := e.collections.upserts["ORD001/"+models.CollectionCredit]
		assert.InDelta(t, 500, credit.Amount, 1e-9)
	})

	t.Run("repeat save updates rather than duplicates", func(t *testing.T) {
		e := newEnv()
		e.orders = newFakeOrders(models.Order{ID: "ORD001", CustomerID: "CUS001", TotalAmount: 1000})
		s := &workflow.BalanceSaver{Stores: e.stores()}

		_, err := s.Save("ORD001", 300, 200, false)
		require.NoError(t, err)
		_, err = s.Save("ORD001", 300, 200, false)
		require.NoError(t, err)

		// Keyed by (order, type): two records total no matter how often saved
		assert.Len(t, e.collections.upserts, 2)
		assert.Equal(t, 4, e.collections.calls)
	})

	t.Run("fully paid order creates no collections", func(t *testing.T) {
		e := newEnv()
		e.orders = newFakeOrders(models.Order{ID: "ORD001", TotalAmount: 500})
		s := &workflow.BalanceSaver{Stores: e.stores()}

		saved, err := s.Save("ORD001", 0, 500, false)
		require.NoError(t, err)
		assert.Equal(t, 0.0, saved.ChequeBalance)
		assert.Equal(t, 0.0, saved.CreditBalance)
		assert.Empty(t, e.collections.upserts)
	})

	t.Run("over-allocation requires confirmation", func(t *testing.T) {
		e := newEnv()
		e.orders = newFakeOrders(models.Order{ID: "ORD001", TotalAmount: 100})
		s := &workflow.BalanceSaver{Stores: e.stores()}

		_, err := s.Save("ORD001", 150, 0, false)
		assert.ErrorIs(t, err, workflow.ErrConfirmationRequired)

		// Nothing persisted without confirmation
		assert.Equal(t, 0.0, e.orders.orders["ORD001"].ChequeBalance)
		assert.Empty(t, e.collections.upserts)

		// Confirmed entry goes through even though it is inconsistent
		saved, err := s.Save("ORD001", 150, 0, true)
		require.NoError(t, err)
		assert.InDelta(t, 150, saved.ChequeBalance, 1e-9)
		assert.Equal(t, 0.0, saved.CreditBalance)
		require.Len(t, e.collections.upserts, 1)
	})

	t.Run("unknown order", func(t *testing.T) {
		e := newEnv()
		s := &workflow.BalanceSaver{Stores: e.stores()}
		_, err := s.Save("ORD404", 10, 0, false)
		assert.Error(t, err)
	})
}
