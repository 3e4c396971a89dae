package broker

import (
	"context"
	"encoding/json"
	"time"

	"storefront-bot/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func stamp(base *models.BaseEvent, eventType string) {
	if base.EventID == "" {
		base.EventID = uuid.NewString()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now().UTC()
	}
	base.EventType = eventType
}

// PublishOrderPlaced publishes OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	stamp(&event.BaseEvent, models.EventTypeOrderPlaced)
	return ep.producer.PublishEvent(ctx, "order-"+event.OrderNumber, event.EventType, event)
}

// PublishTicketSubmitted publishes TicketSubmitted event
func (ep *EventPublisher) PublishTicketSubmitted(ctx context.Context, event *models.TicketSubmittedEvent) error {
	stamp(&event.BaseEvent, models.EventTypeTicketSubmitted)
	return ep.producer.PublishEvent(ctx, "ticket-"+event.TicketID, event.EventType, event)
}

// EventHandler handles incoming events
type EventHandler struct {
	logger               *zap.Logger
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler(logger *zap.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// HandleMessage routes messages to appropriate handlers. The event_type
// header wins over the payload field when both are present. Payloads that
// cannot be decoded are logged and dropped; only handler errors are returned.
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		eh.logger.Warn("Dropping undecodable event", zap.Int64("offset", msg.Offset), zap.Error(err))
		return nil
	}

	eventType := baseEvent.EventType
	for _, h := range msg.Headers {
		if h.Key == EventTypeHeader && len(h.Value) > 0 {
			eventType = string(h.Value)
		}
	}

	eh.logger.Debug("Handling event", zap.String("event_type", eventType), zap.String("event_id", baseEvent.EventID))

	switch eventType {
	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				eh.logger.Warn("Dropping undecodable OrderStatusChanged event",
					zap.String("event_id", baseEvent.EventID), zap.Error(err))
				return nil
			}
			event.EventType = eventType
			return eh.onOrderStatusChanged(ctx, &event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", eventType))
	}

	return nil
}
