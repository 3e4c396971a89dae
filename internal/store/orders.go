package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-bot/internal/models"
)

const orderColumns = `order_number, user_id, customer_name, delivery_address, delivery_location,
	billing_address, total_amount, status, created_at, updated_at`

// CreateOrder stores the header and its items in one transaction. Items are
// numbered in slice order; nothing is persisted if any insert fails.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if order.Status == "" {
		order.Status = models.OrderStatusPlaced
	}
	now := s.now()
	order.CreatedAt = now
	order.UpdatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		order.OrderNumber, order.UserID, order.CustomerName, order.DeliveryAddress,
		order.DeliveryLocation, order.BillingAddress, order.TotalAmount, order.Status,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	insertItem := tx.Rebind(`
		INSERT INTO order_items (order_number, line_no, product_id, product_name, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?, ?)`)
	for i := range items {
		items[i].OrderNumber = order.OrderNumber
		items[i].LineNo = i + 1
		it := items[i]
		if _, err := tx.ExecContext(ctx, insertItem,
			it.OrderNumber, it.LineNo, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", it.LineNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetOrderByNumber retrieves an order by its public number
func (s *Store) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		s.db.Rebind("SELECT "+orderColumns+" FROM orders WHERE order_number = ?"), number)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, number)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersByUser retrieves a customer's orders, newest first
func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		s.db.Rebind("SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC, order_number DESC"),
		userID)
	return orders, err
}

// GetOrderItems retrieves the lines of an order in cart order
func (s *Store) GetOrderItems(ctx context.Context, number string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(`
		SELECT order_number, line_no, product_id, product_name, quantity, unit_price
		FROM order_items WHERE order_number = ? ORDER BY line_no`), number)
	return items, err
}

// UpdateOrderStatus sets the status of an existing order
func (s *Store) UpdateOrderStatus(ctx context.Context, number, status string) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE orders SET status = ?, updated_at = ? WHERE order_number = ?"),
		status, s.now(), number)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireRow(res, number)
}

// ApplyStatusEvent records eventID and updates the order in one transaction.
// It reports false, without touching the order, when the event was already
// applied.
func (s *Store) ApplyStatusEvent(ctx context.Context, eventID, eventType, number, status string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin status transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO processed_events (event_id, event_type, processed_at) VALUES (?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING`),
		eventID, eventType, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to record event: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n == 0 {
		return false, nil
	}

	res, err = tx.ExecContext(ctx,
		tx.Rebind("UPDATE orders SET status = ?, updated_at = ? WHERE order_number = ?"),
		status, s.now(), number)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := requireRow(res, number); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit status update: %w", err)
	}
	return true, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.db.Rebind("SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = ?)"), eventID)
	return exists, err
}

func requireRow(res sql.Result, number string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, number)
	}
	return nil
}
