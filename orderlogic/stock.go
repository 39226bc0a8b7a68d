package orderlogic

import (
	"time"

	"github.com/lithursan/webapp/models"
)

// StockFunc resolves the effective stock for a product id at the time a
// draft transition runs. It is looked up fresh on every call because
// warehouse stock and driver allocations change outside the session.
type StockFunc func(productID string) int

// EffectiveStockOn returns the quantity available to an actor on a given
// date: drivers draw from their day allocation, everyone else from
// warehouse stock. Pure function of its inputs.
func EffectiveStockOn(role models.UserRole, userID uint, p models.Product, allocations []models.DriverAllocation, date string) int {
	if role != models.RoleDriver {
		if p.Stock < 0 {
			return 0
		}
		return p.Stock
	}
	for i := range allocations {
		a := &allocations[i]
		if a.DriverID == userID && a.Date == date {
			return a.Quantity(p.ID)
		}
	}
	return 0
}

// EffectiveStock is EffectiveStockOn for today's date.
func EffectiveStock(role models.UserRole, userID uint, p models.Product, allocations []models.DriverAllocation) int {
	return EffectiveStockOn(role, userID, p, allocations, Today())
}

// Today returns the allocation date key for the current day.
func Today() string {
	return time.Now().Format("2006-01-02")
}
