package models

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is immutable after placement except for Status. Total is frozen at
// placement time and is never recomputed from live product prices.
type Order struct {
	ID        string      `gorm:"primaryKey" json:"id"`
	UserID    string      `gorm:"index;not null" json:"user_id"`
	User      User        `gorm:"foreignKey:UserID" json:"user"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total     float64     `json:"total"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);default:'PLACED'" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem snapshots the unit price at time of purchase.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   string  `gorm:"index" json:"order_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderHistory is append-only: one row per status transition, never updated
// or deleted.
type OrderHistory struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderID     string      `gorm:"index;not null" json:"order_id"`
	FromStatus  OrderStatus `gorm:"type:VARCHAR(20)" json:"from_status"`
	ToStatus    OrderStatus `gorm:"type:VARCHAR(20)" json:"to_status"`
	ChangedByID string      `json:"changed_by_id"`
	ChangedBy   User        `gorm:"foreignKey:ChangedByID" json:"changed_by"`
	ChangedAt   time.Time   `gorm:"autoCreateTime" json:"changed_at"`
}
