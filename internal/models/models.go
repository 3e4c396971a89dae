package models

import "time"

// Order is a placed storefront order. UserID is the customer's phone number.
type Order struct {
	OrderNumber      string    `db:"order_number" json:"order_number"`
	UserID           string    `db:"user_id" json:"user_id"`
	CustomerName     string    `db:"customer_name" json:"customer_name"`
	DeliveryAddress  string    `db:"delivery_address" json:"delivery_address"`
	DeliveryLocation string    `db:"delivery_location" json:"delivery_location"`
	BillingAddress   string    `db:"billing_address" json:"billing_address"`
	TotalAmount      int64     `db:"total_amount" json:"total_amount"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is one cart line copied into an order
type OrderItem struct {
	OrderNumber string `db:"order_number" json:"order_number"`
	LineNo      int    `db:"line_no" json:"line_no"`
	ProductID   string `db:"product_id" json:"product_id"`
	ProductName string `db:"product_name" json:"product_name"`
	Quantity    int    `db:"quantity" json:"quantity"`
	UnitPrice   int64  `db:"unit_price" json:"unit_price"`
}

// Subtotal is quantity times unit price in minor units.
func (i OrderItem) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Order statuses
const (
	OrderStatusPlaced     = "Placed"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// OrderStatuses lists every status fulfillment may set.
var OrderStatuses = []string{
	OrderStatusPlaced,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ValidOrderStatus reports whether status is one of OrderStatuses.
func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Ticket is a support request collected by the bot
type Ticket struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	OrderNumber *string   `db:"order_number" json:"order_number"`
	Topic       string    `db:"topic" json:"topic"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
