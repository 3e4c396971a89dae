// Package session holds the per-user conversational state and its in-memory
// store.
package session

import (
	"storefront-bot/internal/catalog"
	"storefront-bot/internal/i18n"
)

// State is a node in the conversation flow graph.
type State string

const (
	StateWelcome                  State = "WELCOME"
	StateMainMenu                 State = "MAIN_MENU"
	StateSelectGender             State = "SELECT_GENDER"
	StateSelectCategory           State = "SELECT_CATEGORY"
	StateShowProducts             State = "SHOW_PRODUCTS"
	StateAskQuantity              State = "ASK_QUANTITY"
	StateCartDecision             State = "CART_DECISION"
	StateCheckoutName             State = "CHECKOUT_NAME"
	StateCheckoutAddress          State = "CHECKOUT_ADDRESS"
	StateCheckoutDeliveryLocation State = "CHECKOUT_DELIVERY_LOCATION"
	StateCheckoutBillingPrompt    State = "CHECKOUT_BILLING_PROMPT"
	StateCheckoutBillingAddress   State = "CHECKOUT_BILLING_ADDRESS"
	StateCheckoutConfirm          State = "CHECKOUT_CONFIRM"
	StateCheckOrderStatus         State = "CHECK_ORDER_STATUS"
	StateSupportMenu              State = "SUPPORT_MENU"
	StateFAQList                  State = "FAQ_LIST"
	StateTicketName               State = "TICKET_NAME"
	StateTicketOrderNum           State = "TICKET_ORDERNUM"
	StateTicketTopic              State = "TICKET_TOPIC"
	StateTicketDesc               State = "TICKET_DESC"
	StateLiveAgent                State = "LIVE_AGENT"
)

// States is the closed set of legal states.
var States = []State{
	StateWelcome,
	StateMainMenu,
	StateSelectGender,
	StateSelectCategory,
	StateShowProducts,
	StateAskQuantity,
	StateCartDecision,
	StateCheckoutName,
	StateCheckoutAddress,
	StateCheckoutDeliveryLocation,
	StateCheckoutBillingPrompt,
	StateCheckoutBillingAddress,
	StateCheckoutConfirm,
	StateCheckOrderStatus,
	StateSupportMenu,
	StateFAQList,
	StateTicketName,
	StateTicketOrderNum,
	StateTicketTopic,
	StateTicketDesc,
	StateLiveAgent,
}

var validStates = func() map[State]bool {
	m := make(map[State]bool, len(States))
	for _, s := range States {
		m[s] = true
	}
	return m
}()

// Valid reports whether s belongs to the fixed state set.
func (s State) Valid() bool {
	return validStates[s]
}

// IsTicket reports whether s is part of support ticket intake.
func (s State) IsTicket() bool {
	switch s {
	case StateTicketName, StateTicketOrderNum, StateTicketTopic, StateTicketDesc:
		return true
	}
	return false
}

// CartLine is one product added to the cart.
type CartLine struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	UnitPrice catalog.Money `json:"unit_price"`
	Quantity  int           `json:"quantity"`
}

// Subtotal is quantity × unit price.
func (l CartLine) Subtotal() catalog.Money {
	return l.UnitPrice.Times(l.Quantity)
}

// TicketDraft is a support ticket being assembled. A nil OrderNumber means
// the customer has no order to reference.
type TicketDraft struct {
	Name        string  `json:"name"`
	OrderNumber *string `json:"order_number,omitempty"`
	Topic       string  `json:"topic"`
	Description string  `json:"description"`
}

// Session is the conversational state of one user.
type Session struct {
	UserID      string    `json:"user_id"`
	IsFirstTime bool      `json:"is_first_time"`
	Language    i18n.Lang `json:"language,omitempty"`
	State       State     `json:"state"`

	Gender         catalog.Gender   `json:"gender,omitempty"`
	Category       string           `json:"category,omitempty"`
	Cart           []CartLine       `json:"cart"`
	CurrentProduct *catalog.Product `json:"current_product,omitempty"`

	CustomerName     string `json:"customer_name,omitempty"`
	DeliveryAddress  string `json:"delivery_address,omitempty"`
	DeliveryLocation string `json:"delivery_location,omitempty"`
	BillingAddress   string `json:"billing_address,omitempty"`

	Ticket *TicketDraft `json:"ticket,omitempty"`
}

// New returns the default session for a first contact.
func New(userID string) *Session {
	return &Session{
		UserID:      userID,
		IsFirstTime: true,
		State:       StateWelcome,
	}
}

// Reset clears everything except the user id. It is applied after an order
// is placed or cancelled.
func (s *Session) Reset() {
	*s = Session{
		UserID:      s.UserID,
		IsFirstTime: false,
		State:       StateWelcome,
	}
}

// HasLanguage reports whether a language has been chosen.
func (s *Session) HasLanguage() bool {
	return s.Language.Valid()
}

// CartTotal is the sum of line subtotals.
func (s *Session) CartTotal() catalog.Money {
	var total catalog.Money
	for _, l := range s.Cart {
		total += l.Subtotal()
	}
	return total
}

// Clone returns a deep copy safe to hand to code running outside the
// per-user lock.
func (s *Session) Clone() *Session {
	c := *s
	c.Cart = append([]CartLine(nil), s.Cart...)
	if s.CurrentProduct != nil {
		p := *s.CurrentProduct
		c.CurrentProduct = &p
	}
	if s.Ticket != nil {
		t := *s.Ticket
		if s.Ticket.OrderNumber != nil {
			n := *s.Ticket.OrderNumber
			t.OrderNumber = &n
		}
		c.Ticket = &t
	}
	return &c
}
