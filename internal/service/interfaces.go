package service

import (
	"context"

	"storefront-bot/internal/engine"
	"storefront-bot/internal/models"
)

// Messenger delivers outbound messages to a customer.
type Messenger interface {
	Send(ctx context.Context, to string, in engine.Intent) error
	SendDocument(ctx context.Context, to, path, caption string) error
}

// OrderStore persists orders. CreateOrder must be atomic across header and
// items.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
}

// TicketStore persists support tickets.
type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
}

// StatusStore is the order store as seen by fulfillment.
type StatusStore interface {
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, number, status string) error
	ApplyStatusEvent(ctx context.Context, eventID, eventType, number, status string) (bool, error)
}

// EventPublisher announces domain events. Services accept a nil publisher.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishTicketSubmitted(ctx context.Context, event *models.TicketSubmittedEvent) error
}

// Deduplicator drops webhook redeliveries by message id.
type Deduplicator interface {
	MarkMessageSeen(ctx context.Context, messageID string) (bool, error)
}

// InvoiceGenerator renders an invoice file and returns its path.
type InvoiceGenerator interface {
	Generate(order *models.Order, items []models.OrderItem) (string, error)
}

// TicketNotifier forwards a stored ticket to the support team.
type TicketNotifier interface {
	TicketSubmitted(ticket *models.Ticket) error
}
