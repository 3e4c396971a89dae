package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeTicketSubmitted    = "TICKET_SUBMITTED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published when the bot stores a confirmed order
type OrderPlacedEvent struct {
	BaseEvent
	OrderNumber  string          `json:"order_number"`
	UserID       string          `json:"user_id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  int64           `json:"total_amount"`
	Items        []OrderItemData `json:"items"`
}

// TicketSubmittedEvent published when a support ticket is stored
type TicketSubmittedEvent struct {
	BaseEvent
	TicketID    string  `json:"ticket_id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	OrderNumber *string `json:"order_number"`
	Topic       string  `json:"topic"`
}

// OrderStatusChangedEvent is consumed from fulfillment
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
