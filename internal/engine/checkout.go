package engine

import (
	"strings"

	"storefront-bot/internal/i18n"
	"storefront-bot/internal/session"
)

// captureText stores one non-empty free-text answer. It returns false, with
// the corrective reply, when the event cannot satisfy the prompt.
func (e *Engine) captureText(s *session.Session, ev Event, prompt string) (string, Result, bool) {
	if ev.Kind != KindText {
		return "", reply(e.fallback(s, ev)), false
	}
	v := strings.TrimSpace(ev.Text)
	if v == "" {
		return "", reply(Text(e.t(s, "checkout.required")), Text(prompt)), false
	}
	return v, Result{}, true
}

func (e *Engine) onCheckoutName(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "checkout.name"))
	if !ok {
		return res
	}
	s.CustomerName = v
	s.State = session.StateCheckoutAddress
	return reply(Text(e.t(s, "checkout.address", v)))
}

func (e *Engine) onCheckoutAddress(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "checkout.address", s.CustomerName))
	if !ok {
		return res
	}
	s.DeliveryAddress = v
	s.State = session.StateCheckoutDeliveryLocation
	return reply(Text(e.t(s, "checkout.location")))
}

func (e *Engine) onCheckoutDeliveryLocation(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "checkout.location"))
	if !ok {
		return res
	}
	s.DeliveryLocation = v
	s.State = session.StateCheckoutBillingPrompt
	return reply(Text(e.t(s, "checkout.billing_prompt")))
}

func (e *Engine) onCheckoutBillingPrompt(s *session.Session, ev Event) Result {
	if ev.Kind != KindText {
		return reply(e.fallback(s, ev))
	}

	switch {
	case i18n.IsYes(ev.Text):
		s.BillingAddress = s.DeliveryAddress
		s.State = session.StateCheckoutConfirm
		return reply(e.orderSummary(s))
	case i18n.IsNo(ev.Text):
		s.State = session.StateCheckoutBillingAddress
		return reply(Text(e.t(s, "checkout.billing_address")))
	}
	return reply(Text(e.t(s, "checkout.billing_invalid")))
}

func (e *Engine) onCheckoutBillingAddress(s *session.Session, ev Event) Result {
	v, res, ok := e.captureText(s, ev, e.t(s, "checkout.billing_address"))
	if !ok {
		return res
	}
	s.BillingAddress = v
	s.State = session.StateCheckoutConfirm
	return reply(e.orderSummary(s))
}

// onCheckoutConfirm leaves the state untouched on CONFIRM: the order handler
// resets the session only once the order is stored.
func (e *Engine) onCheckoutConfirm(s *session.Session, ev Event) Result {
	if ev.Kind == KindButton {
		switch ev.OptionID {
		case ButtonConfirm:
			return Result{Effect: EffectPlaceOrder}
		case ButtonCancel:
			return Result{
				Intents: []Intent{Text(e.t(s, "order.cancelled"))},
				Effect:  EffectReset,
			}
		}
	}
	return reply(Text(e.t(s, "checkout.confirm_invalid")), e.orderSummary(s))
}
