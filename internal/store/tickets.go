package store

import (
	"context"
	"fmt"

	"storefront-bot/internal/models"
)

// CreateTicket stores a support ticket
func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	ticket.CreatedAt = s.now()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO tickets (id, user_id, name, order_number, topic, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		ticket.ID, ticket.UserID, ticket.Name, ticket.OrderNumber, ticket.Topic,
		ticket.Description, ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// ListTicketsByUser retrieves a customer's tickets, newest first
func (s *Store) ListTicketsByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.SelectContext(ctx, &tickets, s.db.Rebind(`
		SELECT id, user_id, name, order_number, topic, description, created_at
		FROM tickets WHERE user_id = ? ORDER BY created_at DESC, id DESC`), userID)
	return tickets, err
}
