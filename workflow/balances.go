package workflow

import (
	"fmt"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/orderlogic"
	"github.com/lithursan/webapp/store"
)

// BalanceSaver persists partial-payment balances on an order and keeps
// one pending collection record per nonzero balance type, upserted by
// (order id, type) so repeated saves never duplicate.
type BalanceSaver struct {
	Stores store.Stores
}

// Save reconciles and persists the balances. amountPaid is transient UI
// state and is not stored; only the derived cheque/credit pair is. When
// the balances exceed the order total the save requires confirmed=true,
// otherwise it fails with ErrConfirmationRequired and writes nothing.
func (s *BalanceSaver) Save(orderID string, cheque, amountPaid float64, confirmed bool) (*models.Order, error) {
	o, err := s.Stores.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}

	b := orderlogic.NewBalance(o.TotalAmount, amountPaid, cheque)
	if b.NeedsConfirmation() && !confirmed {
		return nil, ErrConfirmationRequired
	}

	o.ChequeBalance = b.Cheque
	o.CreditBalance = b.Credit
	if err := s.Stores.Orders.Update(o); err != nil {
		return nil, fmt.Errorf("failed to save balances: %w", err)
	}

	if b.Cheque > 0 {
		if err := s.upsertCollection(o, models.CollectionCheque, b.Cheque); err != nil {
			return nil, err
		}
	}
	if b.Credit > 0 {
		if err := s.upsertCollection(o, models.CollectionCredit, b.Credit); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (s *BalanceSaver) upsertCollection(o *models.Order, collectionType string, amount float64) error {
	err := s.Stores.Collections.Upsert(&models.Collection{
		OrderID:        o.ID,
		CollectionType: collectionType,
		CustomerID:     o.CustomerID,
		Amount:         amount,
		Status:         "pending",
	})
	if err != nil {
		return fmt.Errorf("failed to record %s collection: %w", collectionType, err)
	}
	return nil
}
