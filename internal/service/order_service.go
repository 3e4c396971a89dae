package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/models"
	"storefront-bot/internal/session"
	"storefront-bot/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when a checkout reaches confirmation with no lines.
var ErrEmptyCart = errors.New("cart is empty")

const defaultInvoiceTimeout = 2 * time.Minute

// PlacedOrder is a stored order with its items.
type PlacedOrder struct {
	Order *models.Order
	Items []models.OrderItem
}

// OrderService finalises checkouts and answers status lookups
type OrderService struct {
	store          OrderStore
	events         EventPublisher
	invoices       InvoiceGenerator
	messenger      Messenger
	engine         *engine.Engine
	logger         *zap.Logger
	newOrderNumber func() string
	invoiceTimeout time.Duration
	wg             sync.WaitGroup
}

// NewOrderService creates a new order service. events and invoices may be nil.
func NewOrderService(
	store OrderStore,
	events EventPublisher,
	invoices InvoiceGenerator,
	messenger Messenger,
	eng *engine.Engine,
) *OrderService {
	return &OrderService{
		store:          store,
		events:         events,
		invoices:       invoices,
		messenger:      messenger,
		engine:         eng,
		logger:         util.GetLogger(),
		newOrderNumber: NewOrderNumber,
		invoiceTimeout: defaultInvoiceTimeout,
	}
}

// NewOrderNumber returns "P" followed by eight upper-case hex digits.
func NewOrderNumber() string {
	return "P" + strings.ToUpper(uuid.NewString()[:8])
}

// PlaceOrder stores the session's cart and checkout details as one order.
// The session is not modified.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *session.Session) (*PlacedOrder, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(sess.Cart) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	start := time.Now()
	defer func() {
		util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	items := make([]models.OrderItem, 0, len(sess.Cart))
	for _, line := range sess.Cart {
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   int64(line.UnitPrice),
		})
	}

	order := &models.Order{
		OrderNumber:      s.newOrderNumber(),
		UserID:           sess.UserID,
		CustomerName:     sess.CustomerName,
		DeliveryAddress:  sess.DeliveryAddress,
		DeliveryLocation: sess.DeliveryLocation,
		BillingAddress:   sess.BillingAddress,
		TotalAmount:      int64(sess.CartTotal()),
		Status:           models.OrderStatusPlaced,
	}
	span.SetAttributes(attribute.String("order_number", order.OrderNumber))

	if err := s.store.CreateOrder(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	util.OrderValueTotal.Add(float64(order.TotalAmount))
	s.logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", order.UserID),
		zap.Int("lines", len(items)),
		zap.Int64("total_amount", order.TotalAmount))

	return &PlacedOrder{Order: order, Items: items}, nil
}

// Announce publishes the OrderPlaced event. Failures are logged only.
func (s *OrderService) Announce(ctx context.Context, placed *PlacedOrder) {
	if s.events == nil {
		return
	}

	data := make([]models.OrderItemData, 0, len(placed.Items))
	for _, it := range placed.Items {
		data = append(data, models.OrderItemData{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	event := &models.OrderPlacedEvent{
		OrderNumber:  placed.Order.OrderNumber,
		UserID:       placed.Order.UserID,
		CustomerName: placed.Order.CustomerName,
		TotalAmount:  placed.Order.TotalAmount,
		Items:        data,
	}

	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.String("order_number", placed.Order.OrderNumber),
			zap.Error(err))
	}
}

// DeliverInvoice renders and sends the invoice in the background. A failure
// is logged and counted; the order stays placed.
func (s *OrderService) DeliverInvoice(placed *PlacedOrder, lang i18n.Lang) {
	if s.invoices == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.invoiceTimeout)
		defer cancel()
		ctx, span := util.StartSpan(ctx, "OrderService.DeliverInvoice")
		defer span.End()

		number := placed.Order.OrderNumber
		path, err := s.invoices.Generate(placed.Order, placed.Items)
		if err != nil {
			util.InvoiceFailuresTotal.WithLabelValues("generate").Inc()
			s.logger.Error("Failed to generate invoice", zap.String("order_number", number), zap.Error(err))
			return
		}

		caption := s.engine.InvoiceCaption(lang, number)
		if err := s.messenger.SendDocument(ctx, placed.Order.UserID, path, caption); err != nil {
			util.InvoiceFailuresTotal.WithLabelValues("send").Inc()
			s.logger.Error("Failed to send invoice", zap.String("order_number", number), zap.Error(err))
			return
		}
		s.logger.Info("Invoice sent", zap.String("order_number", number), zap.String("path", path))
	}()
}

// Wait blocks until background invoice deliveries finish.
func (s *OrderService) Wait() {
	s.wg.Wait()
}

// ListOrders returns the customer's orders, newest first, for status replies.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]engine.OrderSummary, error) {
	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	out := make([]engine.OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, engine.OrderSummary{
			Number: o.OrderNumber,
			Status: o.Status,
			Total:  catalog.Money(o.TotalAmount),
		})
	}
	return out, nil
}
