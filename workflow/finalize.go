package workflow

import (
	"fmt"
	"log"
	"time"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/orderlogic"
	"github.com/lithursan/webapp/store"
)

// Finalizer commits an order as delivered: it validates stock, deducts
// inventory, updates the driver's day allocation and recomputes the
// customer's aggregates. The steps after the status write are a
// best-effort sequence, not a transaction; failures there are collected
// into a PartialFailureWarning instead of rolled back.
type Finalizer struct {
	Stores store.Stores
}

// FinalizeResult carries the delivered order and any follow-up warnings.
type FinalizeResult struct {
	Order    *models.Order
	Warnings []string
}

// Finalize marks the order delivered exactly once. Re-finalizing an
// already-delivered order skips the inventory deduction but still
// refreshes the derived records.
func (f *Finalizer) Finalize(actor models.User, orderID string) (*FinalizeResult, error) {
	o, err := f.Stores.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}

	if len(o.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	today := orderlogic.Today()
	var allocations []models.DriverAllocation
	var alloc *models.DriverAllocation
	if actor.Role == models.RoleDriver {
		alloc, err = f.Stores.Allocations.ForDriverOn(actor.ID, today)
		if err != nil {
			return nil, err
		}
		if alloc != nil {
			allocations = []models.DriverAllocation{*alloc}
		}
	}

	// Every line must be coverable before anything is written.
	products := make(map[string]*models.Product, len(o.Items))
	for _, it := range o.Items {
		p, err := f.Stores.Products.Get(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, err)
		}
		products[it.ProductID] = p
		have := orderlogic.EffectiveStockOn(actor.Role, actor.ID, *p, allocations, today)
		if have < it.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   it.Quantity,
				Available:   have,
			}
		}
	}

	wasDelivered := o.Status == models.StatusDelivered
	soldQty := 0
	for _, it := range o.Items {
		soldQty += it.Quantity
	}
	o.Sold = soldQty
	o.Status = models.StatusDelivered
	if err := f.Stores.Orders.Update(o); err != nil {
		return nil, fmt.Errorf("failed to mark order delivered: %w", err)
	}

	var warnings []string

	if actor.Role == models.RoleDriver && alloc != nil {
		applyDelivery(alloc, o)
		if err := f.Stores.Allocations.Save(alloc); err != nil {
			warnings = append(warnings, "allocation update failed: "+err.Error())
		}
	}

	if !wasDelivered {
		for _, it := range o.Items {
			p := products[it.ProductID]
			remaining := p.Stock - it.Quantity
			if remaining < 0 {
				// Step 2 should have prevented this; tolerate and floor
				// rather than abort a delivery that already happened.
				log.Printf("warning: stock for %s went below zero while delivering %s", p.ID, o.ID)
				remaining = 0
			}
			if err := f.Stores.Products.UpdateStock(p.ID, remaining); err != nil {
				warnings = append(warnings, "stock update failed for "+p.ID+": "+err.Error())
			}
		}
	}

	if err := f.refreshCustomerAggregates(o.CustomerID); err != nil {
		warnings = append(warnings, "customer aggregate update failed: "+err.Error())
	}

	if err := f.Stores.Audit.Record(&models.AuditLog{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    "order.delivered",
		OrderID:   o.ID,
		Amount:    o.TotalAmount,
		Detail:    fmt.Sprintf("%d units delivered", soldQty),
	}); err != nil {
		warnings = append(warnings, "audit record failed: "+err.Error())
	}
	log.Printf("order %s delivered by %s (user %d), amount %.2f at %s",
		o.ID, actor.Name, actor.ID, o.TotalAmount, time.Now().Format(time.RFC3339))

	res := &FinalizeResult{Order: o, Warnings: warnings}
	if len(warnings) > 0 {
		return res, &PartialFailureWarning{OrderID: o.ID, Failures: warnings}
	}
	return res, nil
}

// applyDelivery decrements the allocation's per-product quantities by
// the delivered quantities (floored at 0, zero entries dropped) and adds
// the order's amount to the running sales total.
func applyDelivery(alloc *models.DriverAllocation, o *models.Order) {
	delivered := make(map[string]int, len(o.Items))
	for _, it := range o.Items {
		delivered[it.ProductID] = it.Quantity
	}
	remaining := models.ItemList{}
	for _, entry := range alloc.AllocatedItems {
		left := entry.Quantity - delivered[entry.ProductID]
		if left <= 0 {
			continue
		}
		entry.Quantity = left
		remaining = append(remaining, entry)
	}
	alloc.AllocatedItems = remaining
	alloc.SalesTotal += o.TotalAmount
}

// refreshCustomerAggregates recomputes totalSpent and outstandingBalance
// from all of the customer's delivered orders.
func (f *Finalizer) refreshCustomerAggregates(customerID string) error {
	orders, err := f.Stores.Orders.ListByCustomer(customerID)
	if err != nil {
		return err
	}
	var spent, outstanding float64
	for i := range orders {
		if orders[i].Status != models.StatusDelivered {
			continue
		}
		spent += orders[i].TotalAmount
		outstanding += orders[i].OutstandingBalance()
	}
	return f.Stores.Customers.UpdateAggregates(customerID, spent, outstanding)
}
