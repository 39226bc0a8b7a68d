// Package store isolates persistence behind narrow repository
// interfaces so the finalize and balance workflows can be tested
// without a live database.
package store

import (
	"github.com/lithursan/webapp/models"
)

type OrderStore interface {
	Create(o *models.Order) error
	Update(o *models.Order) error
	Delete(id string) error
	Get(id string) (*models.Order, error)
	List() ([]models.Order, error)
	ListByCustomer(customerID string) ([]models.Order, error)
	// NextID issues the next sequential human-readable order id (ORD001, ...).
	NextID() (string, error)
}

type ProductStore interface {
	Get(id string) (*models.Product, error)
	List() ([]models.Product, error)
	Save(p *models.Product) error
	UpdateStock(id string, stock int) error
}

type CustomerStore interface {
	Get(id string) (*models.Customer, error)
	List() ([]models.Customer, error)
	UpdateAggregates(id string, totalSpent, outstanding float64) error
}

type AllocationStore interface {
	// ForDriverOn returns the allocation for a driver and date, or nil
	// when none exists.
	ForDriverOn(driverID uint, date string) (*models.DriverAllocation, error)
	Save(a *models.DriverAllocation) error
}

type CollectionStore interface {
	// Upsert inserts or updates the collection record keyed by
	// (order id, collection type).
	Upsert(c *models.Collection) error
}

type AuditStore interface {
	Record(e *models.AuditLog) error
}

// Stores bundles every repository the workflows depend on.
type Stores struct {
	Orders      OrderStore
	Products    ProductStore
	Customers   CustomerStore
	Allocations AllocationStore
	Collections CollectionStore
	Audit       AuditStore
}
