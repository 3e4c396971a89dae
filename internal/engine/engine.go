// Package engine implements the storefront conversation state machine.
//
// Transition is pure with respect to I/O: it mutates only the session it is
// given and returns the messages to send plus an optional effect tag. The
// caller executes effects (persisting orders and tickets, looking up order
// status) and renders intents through the messaging transport.
package engine

import (
	"errors"
	"fmt"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/session"
)

// ErrUnknownState is returned when a session carries a state outside the
// fixed set. The session is moved to a safe state before returning.
var ErrUnknownState = errors.New("engine: unknown session state")

// EventKind is the shape of an inbound message.
type EventKind string

const (
	KindText   EventKind = "text"
	KindButton EventKind = "button"
	KindList   EventKind = "list"
)

// Event is one inbound user message.
type Event struct {
	UserID    string    `json:"user_id"`
	Kind      EventKind `json:"kind"`
	Text      string    `json:"text,omitempty"`
	OptionID  string    `json:"option_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
}

// isSelection reports whether the event is a button tap or list pick.
func (ev Event) isSelection() bool {
	return ev.Kind == KindButton || ev.Kind == KindList
}

// Effect tags a side effect the caller must run after the transition.
type Effect string

const (
	EffectNone         Effect = ""
	EffectPlaceOrder   Effect = "PLACE_ORDER"
	EffectSubmitTicket Effect = "SUBMIT_TICKET"
	EffectReset        Effect = "RESET"
	EffectLookupOrders Effect = "LOOKUP_ORDERS"
)

// Result is the output of one transition.
type Result struct {
	Intents []Intent
	Effect  Effect
}

// Catalog is the product data the engine reads.
type Catalog interface {
	Categories(g catalog.Gender) []string
	HasCategory(g catalog.Gender, category string) bool
	ProductsFor(g catalog.Gender, category string) []catalog.Product
	FindProduct(g catalog.Gender, category, id string) (catalog.Product, bool)
	FormatPrice(m catalog.Money) string
}

// Localizer resolves message keys.
type Localizer interface {
	T(lang i18n.Lang, key string, args ...any) string
}

type handler func(e *Engine, s *session.Session, ev Event) Result

// Engine holds the transition table and the data it renders from.
type Engine struct {
	catalog  Catalog
	msgs     Localizer
	handlers map[session.State]handler
}

// New creates an engine.
func New(c Catalog, msgs Localizer) *Engine {
	return &Engine{
		catalog: c,
		msgs:    msgs,
		handlers: map[session.State]handler{
			session.StateWelcome:                  (*Engine).onWelcome,
			session.StateMainMenu:                 (*Engine).onMainMenu,
			session.StateCheckOrderStatus:         (*Engine).onMainMenu,
			session.StateLiveAgent:                (*Engine).onMainMenu,
			session.StateSelectGender:             (*Engine).onSelectGender,
			session.StateSelectCategory:           (*Engine).onSelectCategory,
			session.StateShowProducts:             (*Engine).onShowProducts,
			session.StateAskQuantity:              (*Engine).onAskQuantity,
			session.StateCartDecision:             (*Engine).onCartDecision,
			session.StateCheckoutName:             (*Engine).onCheckoutName,
			session.StateCheckoutAddress:          (*Engine).onCheckoutAddress,
			session.StateCheckoutDeliveryLocation: (*Engine).onCheckoutDeliveryLocation,
			session.StateCheckoutBillingPrompt:    (*Engine).onCheckoutBillingPrompt,
			session.StateCheckoutBillingAddress:   (*Engine).onCheckoutBillingAddress,
			session.StateCheckoutConfirm:          (*Engine).onCheckoutConfirm,
			session.StateSupportMenu:              (*Engine).onSupportMenu,
			session.StateFAQList:                  (*Engine).onFAQList,
			session.StateTicketName:               (*Engine).onTicketName,
			session.StateTicketOrderNum:           (*Engine).onTicketOrderNum,
			session.StateTicketTopic:              (*Engine).onTicketTopic,
			session.StateTicketDesc:               (*Engine).onTicketDesc,
		},
	}
}

// Handles reports whether the transition table has an entry for st.
func (e *Engine) Handles(st session.State) bool {
	_, ok := e.handlers[st]
	return ok
}

// Transition advances s by one inbound event.
func (e *Engine) Transition(s *session.Session, ev Event) (Result, error) {
	h, ok := e.handlers[s.State]
	if !ok {
		bad := s.State
		e.toSafeState(s)
		return reply(e.fallback(s, ev)), fmt.Errorf("%w: %q", ErrUnknownState, bad)
	}

	// Global commands win over every state-specific text handler.
	if ev.Kind == KindText {
		switch {
		case i18n.IsLanguageCommand(ev.Text):
			return e.changeLanguage(s), nil
		case i18n.IsMenuCommand(ev.Text):
			return e.menuCommand(s), nil
		}
	}

	return h(e, s, ev), nil
}

func (e *Engine) toSafeState(s *session.Session) {
	s.CurrentProduct = nil
	s.Ticket = nil
	if s.HasLanguage() {
		s.State = session.StateMainMenu
		return
	}
	s.State = session.StateWelcome
}

func (e *Engine) changeLanguage(s *session.Session) Result {
	s.IsFirstTime = true
	s.Language = ""
	s.State = session.StateWelcome
	s.CurrentProduct = nil
	s.Ticket = nil
	return reply(e.languagePrompt())
}

func (e *Engine) menuCommand(s *session.Session) Result {
	e.toSafeState(s)
	if s.State == session.StateWelcome {
		return reply(e.languagePrompt())
	}
	return reply(
		Text(e.t(s, "greeting.back")),
		e.MainMenu(s.Language),
	)
}

func (e *Engine) fallback(s *session.Session, ev Event) Intent {
	if ev.Kind == KindList {
		return Text(e.t(s, "fallback.list"))
	}
	return Text(e.t(s, "fallback.generic"))
}

func (e *Engine) t(s *session.Session, key string, args ...any) string {
	return e.msgs.T(s.Language, key, args...)
}

func reply(intents ...Intent) Result {
	return Result{Intents: intents}
}
