package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOrder rejects finalizing an order with no active line items.
var ErrEmptyOrder = errors.New("order has no active line items")

// ErrConfirmationRequired gates a balance save where cheque + credit
// exceed the order total; the caller must re-submit with confirmation.
var ErrConfirmationRequired = errors.New("cheque and credit balances exceed the order total; confirmation required")

// InsufficientStockError names the first product that cannot cover its
// ordered quantity. Nothing has been written when it is returned.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", name, e.Requested, e.Available)
}

// PartialFailureWarning reports writes that failed after the order was
// already marked delivered. Earlier writes stand; the caller should
// check the named records manually.
type PartialFailureWarning struct {
	OrderID  string
	Failures []string
}

func (e *PartialFailureWarning) Error() string {
	return fmt.Sprintf("order %s delivered, but some follow-up writes failed: %s",
		e.OrderID, strings.Join(e.Failures, "; "))
}
