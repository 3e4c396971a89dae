package service

import (
	"context"
	"errors"
	"fmt"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/session"
	"storefront-bot/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// outcome is what one dispatch leaves to do once the user's lock is released.
type outcome struct {
	intents []engine.Intent
	after   func(ctx context.Context)
}

// ConversationService routes inbound events through the engine. Each user's
// transition and its persistence effect run under that user's lock; replies,
// event publishing and invoice delivery happen after it is released.
type ConversationService struct {
	engine    *engine.Engine
	sessions  *session.Store
	messenger Messenger
	orders    *OrderService
	support   *SupportService
	dedupe    Deduplicator
	logger    *zap.Logger
}

// NewConversationService creates the dispatcher. dedupe may be nil.
func NewConversationService(
	eng *engine.Engine,
	sessions *session.Store,
	messenger Messenger,
	orders *OrderService,
	support *SupportService,
	dedupe Deduplicator,
) *ConversationService {
	return &ConversationService{
		engine:    eng,
		sessions:  sessions,
		messenger: messenger,
		orders:    orders,
		support:   support,
		dedupe:    dedupe,
		logger:    util.GetLogger(),
	}
}

// HandleEvent processes one inbound event to completion.
func (c *ConversationService) HandleEvent(ctx context.Context, ev engine.Event) error {
	ctx, span := util.StartSpan(ctx, "ConversationService.HandleEvent")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", ev.UserID), attribute.String("kind", string(ev.Kind)))

	if ev.UserID == "" {
		return fmt.Errorf("event without user id")
	}

	if c.dedupe != nil && ev.MessageID != "" {
		first, err := c.dedupe.MarkMessageSeen(ctx, ev.MessageID)
		switch {
		case err != nil:
			c.logger.Warn("Message dedupe unavailable, processing anyway",
				zap.String("message_id", ev.MessageID), zap.Error(err))
		case !first:
			util.MessagesDuplicateTotal.Inc()
			c.logger.Debug("Dropping redelivered message", zap.String("message_id", ev.MessageID))
			return nil
		}
	}

	util.MessagesReceivedTotal.WithLabelValues(string(ev.Kind)).Inc()

	var out outcome
	c.sessions.WithSession(ev.UserID, func(s *session.Session) {
		out = c.dispatch(ctx, s, ev)
	})

	c.deliver(ctx, ev.UserID, out.intents)
	if out.after != nil {
		out.after(ctx)
	}
	return nil
}

func (c *ConversationService) dispatch(ctx context.Context, s *session.Session, ev engine.Event) (out outcome) {
	from := s.State
	defer func() {
		if r := recover(); r != nil {
			util.DispatchErrorsTotal.WithLabelValues("panic").Inc()
			c.logger.Error("Recovered panic while handling event",
				zap.String("user_id", ev.UserID),
				zap.String("state", string(s.State)),
				zap.Any("panic", r),
				zap.Stack("stack"))
			out = outcome{intents: []engine.Intent{c.engine.Fallback(s.Language)}}
		}
	}()

	res, err := c.engine.Transition(s, ev)
	if errors.Is(err, engine.ErrUnknownState) {
		util.DispatchErrorsTotal.WithLabelValues("unknown_state").Inc()
		c.logger.Warn("Session was in an unknown state", zap.String("user_id", ev.UserID), zap.Error(err))
	}

	out.intents = res.Intents
	switch res.Effect {
	case engine.EffectReset:
		s.Reset()
	case engine.EffectPlaceOrder:
		out = c.placeOrder(ctx, s, out.intents)
	case engine.EffectSubmitTicket:
		out = c.submitTicket(ctx, s, out.intents)
	case engine.EffectLookupOrders:
		out.intents = append(out.intents, c.lookupOrders(ctx, s)...)
	}

	util.StateTransitionsTotal.WithLabelValues(string(from), string(s.State)).Inc()
	return out
}

func (c *ConversationService) placeOrder(ctx context.Context, s *session.Session, intents []engine.Intent) outcome {
	lang := s.Language

	placed, err := c.orders.PlaceOrder(ctx, s)
	if err != nil {
		c.logger.Error("Order placement failed", zap.String("user_id", s.UserID), zap.Error(err))
		return outcome{intents: append(intents, c.engine.OrderFailed(lang)...)}
	}

	s.Reset()
	number := placed.Order.OrderNumber
	return outcome{
		intents: append(intents, c.engine.OrderPlaced(lang, number, catalog.Money(placed.Order.TotalAmount))...),
		after: func(ctx context.Context) {
			c.orders.Announce(ctx, placed)
			c.orders.DeliverInvoice(placed, lang)
		},
	}
}

func (c *ConversationService) submitTicket(ctx context.Context, s *session.Session, intents []engine.Intent) outcome {
	ticket, err := c.support.SubmitTicket(ctx, s)
	if err != nil {
		c.logger.Error("Ticket submission failed", zap.String("user_id", s.UserID), zap.Error(err))
		return outcome{intents: append(intents, c.engine.TicketFailed(s.Language)...)}
	}

	s.Ticket = nil
	s.State = session.StateMainMenu
	return outcome{
		intents: append(intents, c.engine.TicketSubmitted(s.Language, ticket.ID)...),
		after: func(ctx context.Context) {
			c.support.Announce(ctx, ticket)
		},
	}
}

func (c *ConversationService) lookupOrders(ctx context.Context, s *session.Session) []engine.Intent {
	s.State = session.StateMainMenu

	orders, err := c.orders.ListOrders(ctx, s.UserID)
	if err != nil {
		c.logger.Error("Order lookup failed", zap.String("user_id", s.UserID), zap.Error(err))
		return c.engine.OrderLookupFailed(s.Language)
	}
	return c.engine.OrderStatus(s.Language, orders)
}

// deliver sends intents in order. A failed send is logged and does not stop
// the rest.
func (c *ConversationService) deliver(ctx context.Context, to string, intents []engine.Intent) {
	for _, in := range intents {
		if err := c.messenger.Send(ctx, to, in); err != nil {
			util.OutboundSendFailuresTotal.WithLabelValues(string(in.Kind)).Inc()
			c.logger.Error("Failed to send message",
				zap.String("user_id", to),
				zap.String("kind", string(in.Kind)),
				zap.Error(err))
		}
	}
}
