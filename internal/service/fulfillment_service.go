package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/models"
	"storefront-bot/internal/session"
	"storefront-bot/internal/store"
	"storefront-bot/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrInvalidStatus is returned for a status outside models.OrderStatuses.
var ErrInvalidStatus = errors.New("invalid order status")

// Status update sources, used as a metric label.
const (
	SourceAPI   = "api"
	SourceKafka = "kafka"
)

// FulfillmentService is the only writer of order status
type FulfillmentService struct {
	store     StatusStore
	sessions  *session.Store
	messenger Messenger
	engine    *engine.Engine
	logger    *zap.Logger
}

// NewFulfillmentService creates a fulfillment service
func NewFulfillmentService(st StatusStore, sessions *session.Store, messenger Messenger, eng *engine.Engine) *FulfillmentService {
	return &FulfillmentService{
		store:     st,
		sessions:  sessions,
		messenger: messenger,
		engine:    eng,
		logger:    util.GetLogger(),
	}
}

// UpdateStatus sets an order's status from the ops API and notifies the
// customer.
func (f *FulfillmentService) UpdateStatus(ctx context.Context, number, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order_number", number), attribute.String("status", status))

	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := f.store.UpdateOrderStatus(ctx, number, status); err != nil {
		return nil, err
	}

	order, err := f.store.GetOrderByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status, SourceAPI).Inc()
	f.logger.Info("Order status updated",
		zap.String("order_number", number),
		zap.String("status", status),
		zap.String("source", SourceAPI))
	f.notify(ctx, order)
	return order, nil
}

// HandleStatusEvent applies an ORDER_STATUS_CHANGED event once per event id.
// Events naming an unknown order or status are logged and dropped; store
// errors are returned and the consumer retries the same message until it
// succeeds.
func (f *FulfillmentService) HandleStatusEvent(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	ctx, span := util.StartSpan(ctx, "FulfillmentService.HandleStatusEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", event.EventID), attribute.String("order_number", event.OrderNumber))

	if event.EventID == "" || !models.ValidOrderStatus(event.Status) {
		f.logger.Warn("Dropping malformed status event",
			zap.String("event_id", event.EventID),
			zap.String("order_number", event.OrderNumber),
			zap.String("status", event.Status))
		return nil
	}

	applied, err := f.store.ApplyStatusEvent(ctx, event.EventID, models.EventTypeOrderStatusChanged, event.OrderNumber, event.Status)
	if errors.Is(err, store.ErrOrderNotFound) {
		f.logger.Warn("Status event for unknown order",
			zap.String("event_id", event.EventID),
			zap.String("order_number", event.OrderNumber))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to apply status event %s: %w", event.EventID, err)
	}
	if !applied {
		f.logger.Info("Status event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	order, err := f.store.GetOrderByNumber(ctx, event.OrderNumber)
	if err != nil {
		return fmt.Errorf("failed to load order %s: %w", event.OrderNumber, err)
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(event.Status, SourceKafka).Inc()
	f.logger.Info("Order status updated",
		zap.String("order_number", event.OrderNumber),
		zap.String("status", event.Status),
		zap.String("source", SourceKafka))
	f.notify(ctx, order)
	return nil
}

// notify tells the customer about the new status in their session language,
// or English when the bot has no session for them.
func (f *FulfillmentService) notify(ctx context.Context, order *models.Order) {
	lang := i18n.EN
	if s, ok := f.sessions.Peek(order.UserID); ok && s.HasLanguage() {
		lang = s.Language
	}

	msg := f.engine.StatusChanged(lang, order.OrderNumber, order.Status)
	if err := f.messenger.Send(ctx, order.UserID, msg); err != nil {
		util.OutboundSendFailuresTotal.WithLabelValues(string(msg.Kind)).Inc()
		f.logger.Error("Failed to send status notification",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}
