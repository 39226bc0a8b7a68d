package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// OrderStatus represents all possible states of a sales order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// OrderItem is one line of an order. Price is a snapshot taken when the
// line was entered and may override the catalog price; Discount is a
// percentage in [0,100].
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
}

// ItemList stores order lines as a JSON-encoded column on the order row.
type ItemList []OrderItem

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		l = ItemList{}
	}
	return json.Marshal(l)
}

func (l *ItemList) Scan(value interface{}) error {
	if value == nil {
		*l = ItemList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported column type for ItemList")
}

type Order struct {
	ID               string               `json:"id" gorm:"primaryKey"` // e.g. ORD001
	CustomerID       string               `json:"customer_id" gorm:"not null;index"`
	CustomerName     string               `json:"customer_name"`
	AssignedUserID   uint                 `json:"assigned_user_id" gorm:"index"`
	AssignedUser     *User                `json:"assigned_user,omitempty" gorm:"foreignKey:AssignedUserID"`
	Status           OrderStatus          `json:"status" gorm:"not null;default:'Pending'"`
	Items            ItemList             `json:"items" gorm:"type:text"`
	BackorderedItems ItemList             `json:"backordered_items" gorm:"type:text"`
	PaymentMethod    string               `json:"payment_method"`
	Notes            string               `json:"notes"`
	OrderDate        time.Time            `json:"order_date"`
	ExpectedDelivery string               `json:"expected_delivery_date"` // YYYY-MM-DD
	TotalAmount      float64              `json:"total_amount"`
	ChequeBalance    float64              `json:"cheque_balance"`
	CreditBalance    float64              `json:"credit_balance"`
	Sold             int                  `json:"sold"` // delivered quantity sum, set on finalize
	StatusHistory    []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// OutstandingBalance is the unpaid remainder tracked on the order.
func (o *Order) OutstandingBalance() float64 {
	return o.ChequeBalance + o.CreditBalance
}

// OrderStatusHistory tracks every status change for the audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
