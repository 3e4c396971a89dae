package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-bot/internal/models"
	"storefront-bot/internal/session"
	"storefront-bot/internal/util"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrNoTicket is returned when a submission has no draft to store.
var ErrNoTicket = errors.New("no ticket draft")

// SupportService stores support tickets and forwards them to the team
type SupportService struct {
	store    TicketStore
	events   EventPublisher
	notifier TicketNotifier
	logger   *zap.Logger
	newID    func() string
}

// NewSupportService creates a support service. events and notifier may be nil.
func NewSupportService(store TicketStore, events EventPublisher, notifier TicketNotifier) *SupportService {
	return &SupportService{
		store:    store,
		events:   events,
		notifier: notifier,
		logger:   util.GetLogger(),
		newID:    func() string { return ulid.Make().String() },
	}
}

// SubmitTicket stores the session's ticket draft. The session is not modified.
func (s *SupportService) SubmitTicket(ctx context.Context, sess *session.Session) (*models.Ticket, error) {
	ctx, span := util.StartSpan(ctx, "SupportService.SubmitTicket")
	defer span.End()

	draft := sess.Ticket
	if draft == nil {
		util.TicketsFailedTotal.Inc()
		return nil, ErrNoTicket
	}

	ticket := &models.Ticket{
		ID:          s.newID(),
		UserID:      sess.UserID,
		Name:        draft.Name,
		Topic:       draft.Topic,
		Description: draft.Description,
	}
	if draft.OrderNumber != nil {
		n := *draft.OrderNumber
		ticket.OrderNumber = &n
	}
	span.SetAttributes(attribute.String("ticket_id", ticket.ID))

	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		util.TicketsFailedTotal.Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	util.TicketsSubmittedTotal.WithLabelValues(ticket.Topic).Inc()
	s.logger.Info("Ticket submitted",
		zap.String("ticket_id", ticket.ID),
		zap.String("user_id", ticket.UserID),
		zap.String("topic", ticket.Topic))
	return ticket, nil
}

// Announce publishes the TicketSubmitted event and emails the support inbox.
// Failures are logged only.
func (s *SupportService) Announce(ctx context.Context, ticket *models.Ticket) {
	if s.events != nil {
		err := s.events.PublishTicketSubmitted(ctx, &models.TicketSubmittedEvent{
			TicketID:    ticket.ID,
			UserID:      ticket.UserID,
			Name:        ticket.Name,
			OrderNumber: ticket.OrderNumber,
			Topic:       ticket.Topic,
		})
		if err != nil {
			s.logger.Error("Failed to publish TicketSubmitted event", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.TicketSubmitted(ticket); err != nil {
			s.logger.Error("Failed to email ticket", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}
}
