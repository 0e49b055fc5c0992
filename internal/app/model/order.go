package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderTransitions is the allowed-from → allowed-to table. Delivered and
// cancelled are terminal. A same-status update is handled separately as a
// no-op and never consults this table.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	ShippingAddressID uint           `gorm:"not null;index" json:"shipping_address_id"`
	Status            OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Subtotal          float64        `gorm:"not null" json:"subtotal"`
	TaxAmount         float64        `gorm:"not null" json:"tax_amount"`
	ShippingFee       float64        `gorm:"not null" json:"shipping_fee"`
	TotalAmount       float64        `gorm:"not null" json:"total_amount"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User            User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShippingAddress Address     `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	OrderItems      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots a cart line at purchase time. SellerID and
// PriceAtPurchase are copies taken from the product so later edits to the
// product do not rewrite order history. Rows are immutable after creation.
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	SellerID        uint           `gorm:"not null;index" json:"seller_id"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	PriceAtPurchase float64        `gorm:"not null" json:"price_at_purchase"`
	TotalPrice      float64        `gorm:"not null" json:"total_price"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Seller  User    `gorm:"foreignKey:SellerID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
