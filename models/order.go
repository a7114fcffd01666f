package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending         OrderStatus = "pending"          // Order placed, awaiting confirmation
	OrderStatusConfirmed       OrderStatus = "confirmed"        // Confirmed by the shop
	OrderStatusShipped         OrderStatus = "shipped"          // Out for delivery
	OrderStatusDelivered       OrderStatus = "delivered"        // Customer received the items
	OrderStatusReturnRequested OrderStatus = "return_requested" // Return filed within the window
	OrderStatusReturned        OrderStatus = "returned"         // Items came back
	OrderStatusCancelled       OrderStatus = "cancelled"        // Cancelled before shipping

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// KnownOrderStatus reports whether s is one of the defined status values.
func KnownOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusReturnRequested,
		OrderStatusReturned, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is immutable once created: item prices are frozen at purchase time
// and never reread from the live variant.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderRef      string        `gorm:"uniqueIndex;not null" json:"order_ref"`
	UserID        string        `gorm:"index;not null" json:"user_id"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64       `json:"total_amount"`
	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type OrderItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderID         uint    `gorm:"index" json:"order_id"`
	VariantID       uint    `gorm:"not null" json:"variant_id"`
	ShopID          uint    `gorm:"index" json:"shop_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

// Transaction is the payment record for an order, created PENDING inside the
// order transaction and flipped by the payment webhook.
type Transaction struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OrderID   uint          `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Provider  string        `json:"provider"`
	Reference string        `gorm:"index" json:"reference"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Shipment records delivery; DeliveredAt anchors the return window.
type Shipment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	OrderID      uint       `gorm:"uniqueIndex;not null" json:"order_id"`
	Carrier      string     `json:"carrier"`
	TrackingCode string     `json:"tracking_code"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
}

// ReturnRequest is one-to-one with an order, creatable only within the
// return window after delivery.
type ReturnRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Reason    string    `gorm:"not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
