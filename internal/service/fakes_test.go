package service

import (
	"context"
	"errors"
	"sync"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/models"
	"storefront-bot/internal/session"
)

var errStoreDown = errors.New("store unavailable")

type sentMessage struct {
	To     string
	Intent engine.Intent
}

type sentDocument struct {
	To      string
	Path    string
	Caption string
}

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []sentMessage
	docs    []sentDocument
	sendErr error
	docErr  error
}

func (m *fakeMessenger) Send(_ context.Context, to string, in engine.Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMessage{To: to, Intent: in})
	return nil
}

func (m *fakeMessenger) SendDocument(_ context.Context, to, path, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docErr != nil {
		return m.docErr
	}
	m.docs = append(m.docs, sentDocument{To: to, Path: path, Caption: caption})
	return nil
}

// bodies returns the message bodies sent to a user, in order.
func (m *fakeMessenger) bodies(to string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		if s.To == to {
			out = append(out, s.Intent.Body)
		}
	}
	return out
}

func (m *fakeMessenger) last(to string) engine.Intent {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To == to {
			return m.sent[i].Intent
		}
	}
	return engine.Intent{}
}

func (m *fakeMessenger) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

func (m *fakeMessenger) documents() []sentDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentDocument(nil), m.docs...)
}

type fakeOrderStore struct {
	mu      sync.Mutex
	orders  []models.Order
	items   map[string][]models.OrderItem
	err     error
	listErr error
	panicOn bool
}

func (s *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOn {
		panic("driver exploded")
	}
	if s.err != nil {
		return s.err
	}
	if s.items == nil {
		s.items = make(map[string][]models.OrderItem)
	}
	s.orders = append(s.orders, *order)
	s.items[order.OrderNumber] = append([]models.OrderItem(nil), items...)
	return nil
}

func (s *fakeOrderStore) ListOrdersByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

func (s *fakeOrderStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeOrderStore) byUser(userID string) []models.Order {
	orders, _ := s.ListOrdersByUser(context.Background(), userID)
	return orders
}

type fakeTicketStore struct {
	mu      sync.Mutex
	tickets []models.Ticket
	err     error
}

func (s *fakeTicketStore) CreateTicket(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.tickets = append(s.tickets, *t)
	return nil
}

type fakePublisher struct {
	mu      sync.Mutex
	orders  []models.OrderPlacedEvent
	tickets []models.TicketSubmittedEvent
	err     error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, ev *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.orders = append(p.orders, *ev)
	return nil
}

func (p *fakePublisher) PublishTicketSubmitted(_ context.Context, ev *models.TicketSubmittedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.tickets = append(p.tickets, *ev)
	return nil
}

type fakeInvoices struct {
	mu        sync.Mutex
	generated []string
	err       error
}

func (g *fakeInvoices) Generate(order *models.Order, _ []models.OrderItem) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	path := "/tmp/invoices/invoice_" + order.OrderNumber + ".pdf"
	g.generated = append(g.generated, path)
	return path, nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	tickets []string
	err     error
}

func (n *fakeNotifier) TicketSubmitted(t *models.Ticket) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tickets = append(n.tickets, t.ID)
	return n.err
}

type fakeDedupe struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (d *fakeDedupe) MarkMessageSeen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[id] {
		return false, nil
	}
	d.seen[id] = true
	return true, nil
}

type harness struct {
	svc       *ConversationService
	sessions  *session.Store
	engine    *engine.Engine
	messenger *fakeMessenger
	orders    *fakeOrderStore
	tickets   *fakeTicketStore
	publisher *fakePublisher
	invoices  *fakeInvoices
	notifier  *fakeNotifier
	dedupe    *fakeDedupe
	orderSvc  *OrderService
}

func newHarness() *harness {
	h := &harness{
		sessions:  session.NewStore(),
		engine:    engine.New(catalog.MustDefault(), i18n.MustLoad()),
		messenger: &fakeMessenger{},
		orders:    &fakeOrderStore{},
		tickets:   &fakeTicketStore{},
		publisher: &fakePublisher{},
		invoices:  &fakeInvoices{},
		notifier:  &fakeNotifier{},
		dedupe:    &fakeDedupe{},
	}
	h.orderSvc = NewOrderService(h.orders, h.publisher, h.invoices, h.messenger, h.engine)
	support := NewSupportService(h.tickets, h.publisher, h.notifier)
	h.svc = NewConversationService(h.engine, h.sessions, h.messenger, h.orderSvc, support, h.dedupe)
	return h
}
