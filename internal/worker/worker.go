package worker

import (
	"context"
	"errors"

	"storefront-bot/internal/broker"
	"storefront-bot/internal/models"
	"storefront-bot/internal/util"

	"go.uber.org/zap"
)

// MessageSource is a Kafka consumer the worker reads from.
type MessageSource interface {
	StartConsuming(ctx context.Context, handler broker.MessageHandler) error
	Close() error
}

// StatusHandler applies one fulfillment status event.
type StatusHandler func(ctx context.Context, event *models.OrderStatusChangedEvent) error

// StatusWorker feeds ORDER_STATUS_CHANGED events from Kafka into fulfillment
type StatusWorker struct {
	consumer     MessageSource
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewStatusWorker creates a new status worker
func NewStatusWorker(consumer MessageSource, handle StatusHandler) *StatusWorker {
	logger := util.GetLogger()
	eventHandler := broker.NewEventHandler(logger)
	eventHandler.OnOrderStatusChanged(handle)

	return &StatusWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start consumes until ctx is cancelled. Cancellation is a clean stop and
// returns nil.
func (w *StatusWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting status worker")
	err := w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop stops the worker
func (w *StatusWorker) Stop() error {
	w.logger.Info("Stopping status worker")
	return w.consumer.Close()
}
