package models

import "gorm.io/gorm"

// Order statuses. New orders always start pending.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order is one customer order. TotalAmount is derived from its items
// and never taken from the client.
type Order struct {
	gorm.Model
	CustomerName  string      `gorm:"size:100;not null"               json:"customer_name"`
	CustomerEmail string      `gorm:"size:100;not null;index"         json:"customer_email"`
	Status        string      `gorm:"size:100;not null;default:pending" json:"status"`
	TotalAmount   float64     `gorm:"not null;default:0"              json:"total_amount"`
	OrderBatchID  *uint       `gorm:"index"                           json:"order_batch_id,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"              json:"items,omitempty"`
}

// OrderItem is one line of an order. UnitPrice is a snapshot of the
// product's price at order time; later price changes do not touch it.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Quantity  int     `gorm:"not null"       json:"quantity"`
	UnitPrice float64 `gorm:"not null"       json:"unit_price"`
	Subtotal  float64 `gorm:"not null"       json:"subtotal"`
}

// OrderBatch groups the orders created by one batch request. It carries
// no payload of its own; the row exists so orders can reference a
// correlation id that is guaranteed to be persisted first.
type OrderBatch struct {
	gorm.Model
}

func (OrderBatch) TableName() string { return "order_batches" }
