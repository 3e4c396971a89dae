package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/models"
	"storefront-bot/internal/service"
	"storefront-bot/internal/session"
	"storefront-bot/internal/store"
	"storefront-bot/internal/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "messages": [
          {"from": "218910000001", "id": "wamid.1", "type": "text", "text": {"body": "hi"}},
          {"from": "218910000001", "id": "wamid.2", "type": "image"},
          {"from": "218910000001", "id": "wamid.3", "type": "interactive",
           "interactive": {"type": "button_reply", "button_reply": {"id": "LANG_EN", "title": "English"}}}
        ]
      }
    }]
  }]
}`

type recordingConversations struct {
	mu     sync.Mutex
	events []engine.Event
}

func (r *recordingConversations) HandleEvent(_ context.Context, ev engine.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type nopMessenger struct {
	mu   sync.Mutex
	sent int
}

func (m *nopMessenger) Send(context.Context, string, engine.Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func (m *nopMessenger) SendDocument(context.Context, string, string, string) error { return nil }

type testServer struct {
	router        *gin.Engine
	conversations *recordingConversations
	store         *store.Store
	messenger     *nopMessenger
}

func newTestServer(t *testing.T, webhook WebhookConfig, checks ...ReadinessCheck) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewStore(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	ts := &testServer{
		router:        gin.New(),
		conversations: &recordingConversations{},
		store:         st,
		messenger:     &nopMessenger{},
	}
	eng := engine.New(catalog.MustDefault(), i18n.MustLoad())
	fulfillment := service.NewFulfillmentService(st, session.NewStore(), ts.messenger, eng)
	NewHandler(ts.conversations, st, fulfillment, webhook, checks...).SetupRoutes(ts.router)
	return ts
}

func (ts *testServer) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) seedOrder(t *testing.T, number, user string) {
	t.Helper()
	order := &models.Order{
		OrderNumber:     number,
		UserID:          user,
		CustomerName:    "Ali",
		DeliveryAddress: "Tripoli",
		BillingAddress:  "Tripoli",
		TotalAmount:     10000,
	}
	items := []models.OrderItem{{ProductID: "1", ProductName: "XYZ Cologne", Quantity: 2, UnitPrice: 5000}}
	require.NoError(t, ts.store.CreateOrder(context.Background(), order, items))
}

func TestWebhookVerification(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{VerifyToken: "s3cret"})

	tests := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"valid", "hub.mode=subscribe&hub.verify_token=s3cret&hub.challenge=12345", http.StatusOK, "12345"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=12345", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=s3cret&hub.challenge=12345", http.StatusForbidden, ""},
		{"missing", "", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(http.MethodGet, "/webhook?"+tt.query, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestWebhookDispatchesEventsInOrder(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})

	w := ts.do(http.MethodPost, "/webhook", samplePayload, "Content-Type", "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, ts.conversations.events, 2)
	assert.Equal(t, engine.KindText, ts.conversations.events[0].Kind)
	assert.Equal(t, "hi", ts.conversations.events[0].Text)
	assert.Equal(t, engine.KindButton, ts.conversations.events[1].Kind)
	assert.Equal(t, "LANG_EN", ts.conversations.events[1].OptionID)
	assert.Equal(t, "wamid.3", ts.conversations.events[1].MessageID)
}

func TestWebhookAcknowledgesStatusOnlyPayloads(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})

	body := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"id":"x"}]}}]}]}`
	w := ts.do(http.MethodPost, "/webhook", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, ts.conversations.events)
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})

	w := ts.do(http.MethodPost, "/webhook", `{"entry": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ts.conversations.events)
}

func TestWebhookSignature(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{AppSecret: "app-secret"})

	w := ts.do(http.MethodPost, "/webhook", samplePayload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, "/webhook", samplePayload,
		whatsapp.SignatureHeader, whatsapp.Sign("other", []byte(samplePayload)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, ts.conversations.events)

	w = ts.do(http.MethodPost, "/webhook", samplePayload,
		whatsapp.SignatureHeader, whatsapp.Sign("app-secret", []byte(samplePayload)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, ts.conversations.events, 2)
}

func TestGetOrder(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})
	ts.seedOrder(t, "P1234ABCD", "218910000001")

	w := ts.do(http.MethodGet, "/api/v1/orders/P1234ABCD", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"order_number":"P1234ABCD"`)
	assert.Contains(t, w.Body.String(), `"product_name":"XYZ Cologne"`)

	w = ts.do(http.MethodGet, "/api/v1/orders/PNOPE", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCustomerOrders(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})
	ts.seedOrder(t, "P00000001", "218910000001")
	ts.seedOrder(t, "P00000002", "218910000002")

	w := ts.do(http.MethodGet, "/api/v1/customers/218910000001/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "P00000001")
	assert.NotContains(t, w.Body.String(), "P00000002")

	w = ts.do(http.MethodGet, "/api/v1/customers/218919999999/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"orders":[]}`, w.Body.String())
}

func TestUpdateOrderStatus(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})
	ts.seedOrder(t, "P1234ABCD", "218910000001")

	w := ts.do(http.MethodPatch, "/api/v1/orders/P1234ABCD/status", `{"status":"Shipped"}`,
		"Content-Type", "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Shipped"`)
	assert.Equal(t, 1, ts.messenger.sent)

	w = ts.do(http.MethodPatch, "/api/v1/orders/P1234ABCD/status", `{"status":"Lost"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, "/api/v1/orders/P1234ABCD/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, "/api/v1/orders/PNOPE/status", `{"status":"Shipped"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	healthy := ReadinessCheck{Name: "database", Ping: func(context.Context) error { return nil }}
	broken := ReadinessCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	ts := newTestServer(t, WebhookConfig{}, healthy)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/ready", "").Code)

	ts = newTestServer(t, WebhookConfig{}, healthy, broken)
	w := ts.do(http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.NotContains(t, w.Body.String(), "database")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, WebhookConfig{})
	ts.do(http.MethodGet, "/health", "")

	w := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
