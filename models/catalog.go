package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Product struct {
	ID        string    `json:"id" gorm:"primaryKey"` // e.g. PRD001
	Name      string    `json:"name" gorm:"not null"`
	Category  string    `json:"category"`
	SKU       string    `json:"sku" gorm:"uniqueIndex"`
	Supplier  string    `json:"supplier"`
	Price     float64   `json:"price" gorm:"not null"`
	Stock     int       `json:"stock" gorm:"not null;default:0"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscountMap is a customer's default per-product discount schedule,
// stored as a JSON-encoded column: product id → percent.
type DiscountMap map[string]float64

func (m DiscountMap) Value() (driver.Value, error) {
	if m == nil {
		m = DiscountMap{}
	}
	return json.Marshal(m)
}

func (m *DiscountMap) Scan(value interface{}) error {
	if value == nil {
		*m = DiscountMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("unsupported column type for DiscountMap")
}

type Customer struct {
	ID                 string      `json:"id" gorm:"primaryKey"` // e.g. CUS001
	Name               string      `json:"name" gorm:"not null"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Address            string      `json:"address"`
	Discounts          DiscountMap `json:"discounts" gorm:"type:text"`
	TotalSpent         float64     `json:"total_spent"`         // derived: Σ total over delivered orders
	OutstandingBalance float64     `json:"outstanding_balance"` // derived: Σ cheque+credit over delivered orders
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// DriverAllocation is a per-driver, per-day snapshot of loaded product
// quantities. It is produced by the loading process and decremented as
// the driver delivers orders.
type DriverAllocation struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	DriverID       uint      `json:"driver_id" gorm:"not null;uniqueIndex:idx_driver_date"`
	Date           string    `json:"date" gorm:"not null;uniqueIndex:idx_driver_date"` // YYYY-MM-DD
	AllocatedItems ItemList  `json:"allocated_items" gorm:"type:text"`
	SalesTotal     float64   `json:"sales_total"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Quantity returns the allocated quantity left for a product, 0 if the
// product is not on the load.
func (a *DriverAllocation) Quantity(productID string) int {
	if a == nil {
		return 0
	}
	for _, it := range a.AllocatedItems {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Collection types for pending payment follow-ups.
const (
	CollectionCheque = "cheque"
	CollectionCredit = "credit"
)

// Collection is one pending payment record per order and balance type.
// The (order_id, collection_type) pair is unique so balance saves upsert
// rather than duplicate.
type Collection struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	OrderID        string    `json:"order_id" gorm:"not null;uniqueIndex:idx_order_type"`
	CollectionType string    `json:"collection_type" gorm:"not null;uniqueIndex:idx_order_type"`
	CustomerID     string    `json:"customer_id"`
	Amount         float64   `json:"amount" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuditLog records finalize side effects: who delivered what, when, and
// for how much.
type AuditLog struct {
	ID        string    `json:"id" gorm:"primaryKey"` // uuid
	ActorID   uint      `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action" gorm:"not null"`
	OrderID   string    `json:"order_id" gorm:"index"`
	Amount    float64   `json:"amount"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
