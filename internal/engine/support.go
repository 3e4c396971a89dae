package engine

import (
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/session"
)

func (e *Engine) onSupportMenu(s *session.Session, ev Event) Result {
	if ev.Kind != KindButton {
		return reply(e.fallback(s, ev))
	}

	switch ev.OptionID {
	case ButtonFAQs:
		s.State = session.StateFAQList
		return reply(e.faqList(s))
	case ButtonSubmitTicket:
		s.State = session.StateTicketName
		s.Ticket = &session.TicketDraft{}
		return reply(Text(e.t(s, "ticket.name")))
	case ButtonLiveAgent:
		s.State = session.StateMainMenu
		return reply(Text(e.t(s, "support.agent_placeholder")), e.MainMenu(s.Language))
	}
	return reply(Text(e.t(s, "support.invalid")), e.supportMenu(s))
}

func (e *Engine) onFAQList(s *session.Session, ev Event) Result {
	if ev.Kind != KindList {
		return reply(e.fallback(s, ev))
	}
	if !contains(FAQKeys, ev.OptionID) {
		return reply(Text(e.t(s, "faq.invalid")), e.faqList(s))
	}

	s.State = session.StateMainMenu
	return reply(Text(e.t(s, "faq."+ev.OptionID)), e.MainMenu(s.Language))
}

func (e *Engine) ticket(s *session.Session) *session.TicketDraft {
	if s.Ticket == nil {
		s.Ticket = &session.TicketDraft{}
	}
	return s.Ticket
}

func (e *Engine) onTicketName(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "ticket.name"))
	if !ok {
		return res
	}
	e.ticket(s).Name = v
	s.State = session.StateTicketOrderNum
	return reply(Text(e.t(s, "ticket.order_number")))
}

func (e *Engine) onTicketOrderNum(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "ticket.order_number"))
	if !ok {
		return res
	}

	t := e.ticket(s)
	if i18n.IsNone(v) {
		t.OrderNumber = nil
	} else {
		t.OrderNumber = &v
	}
	s.State = session.StateTicketTopic
	return reply(e.ticketTopicList(s))
}

func (e *Engine) onTicketTopic(s *session.Session, ev Event) Result {
	switch ev.Kind {
	case KindButton:
		return reply(e.fallback(s, ev))
	case KindText:
		return reply(Text(e.t(s, "ticket.topic_invalid")), e.ticketTopicList(s))
	}

	if !contains(TicketTopics, ev.OptionID) {
		return reply(Text(e.t(s, "ticket.topic_invalid")), e.ticketTopicList(s))
	}
	e.ticket(s).Topic = ev.OptionID
	s.State = session.StateTicketDesc
	return reply(Text(e.t(s, "ticket.description")))
}

// onTicketDesc records the description and hands off to the ticket handler,
// which clears the draft and returns to the main menu on success.
func (e *Engine) onTicketDesc(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "ticket.description"))
	if !ok {
		return res
	}
	e.ticket(s).Description = v
	return Result{Effect: EffectSubmitTicket}
}
