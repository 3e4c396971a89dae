package service

import (
	"context"
	"testing"

	"storefront-bot/internal/catalog"
	"storefront-bot/internal/engine"
	"storefront-bot/internal/i18n"
	"storefront-bot/internal/models"
	"storefront-bot/internal/session"
	"storefront-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fulfillmentFixture struct {
	svc       *FulfillmentService
	store     *store.Store
	sessions  *session.Store
	messenger *fakeMessenger
	engine    *engine.Engine
}

func newFulfillmentFixture(t *testing.T) *fulfillmentFixture {
	t.Helper()
	st, err := store.NewStore(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	order := &models.Order{
		OrderNumber:     "P0000ABCD",
		UserID:          "218910000100",
		CustomerName:    "Ali",
		DeliveryAddress: "Tripoli",
		BillingAddress:  "Tripoli",
		TotalAmount:     5000,
	}
	items := []models.OrderItem{{ProductID: "1", ProductName: "XYZ Cologne", Quantity: 1, UnitPrice: 5000}}
	require.NoError(t, st.CreateOrder(context.Background(), order, items))

	f := &fulfillmentFixture{
		store:     st,
		sessions:  session.NewStore(),
		messenger: &fakeMessenger{},
		engine:    engine.New(catalog.MustDefault(), i18n.MustLoad()),
	}
	f.svc = NewFulfillmentService(st, f.sessions, f.messenger, f.engine)
	return f
}

func TestUpdateStatusNotifiesInEnglishWithoutSession(t *testing.T) {
	f := newFulfillmentFixture(t)

	order, err := f.svc.UpdateStatus(context.Background(), "P0000ABCD", models.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	stored, err := f.store.GetOrderByNumber(context.Background(), "P0000ABCD")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)

	assert.Equal(t, []string{"Update: your order (P0000ABCD) is now Shipped."}, f.messenger.bodies("218910000100"))
	assert.Zero(t, f.sessions.Len(), "notifying must not create a session")
}

func TestUpdateStatusUsesSessionLanguage(t *testing.T) {
	f := newFulfillmentFixture(t)
	f.sessions.WithSession("218910000100", func(s *session.Session) {
		s.Language = i18n.AR
		s.State = session.StateMainMenu
	})

	_, err := f.svc.UpdateStatus(context.Background(), "P0000ABCD", models.OrderStatusDelivered)
	require.NoError(t, err)

	want := f.engine.StatusChanged(i18n.AR, "P0000ABCD", models.OrderStatusDelivered).Body
	assert.Equal(t, []string{want}, f.messenger.bodies("218910000100"))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFulfillmentFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), "P0000ABCD", "Teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, f.messenger.bodies("218910000100"))
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newFulfillmentFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), "PFFFFFFFF", models.OrderStatusShipped)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestHandleStatusEventIsIdempotent(t *testing.T) {
	f := newFulfillmentFixture(t)
	event := &models.OrderStatusChangedEvent{
		BaseEvent:   models.BaseEvent{EventID: "evt-1", EventType: models.EventTypeOrderStatusChanged},
		OrderNumber: "P0000ABCD",
		Status:      models.OrderStatusProcessing,
	}

	require.NoError(t, f.svc.HandleStatusEvent(context.Background(), event))
	require.NoError(t, f.svc.HandleStatusEvent(context.Background(), event))

	assert.Len(t, f.messenger.bodies("218910000100"), 1)
	processed, err := f.store.IsEventProcessed(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)

	stored, err := f.store.GetOrderByNumber(context.Background(), "P0000ABCD")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestHandleStatusEventDropsBadEvents(t *testing.T) {
	f := newFulfillmentFixture(t)
	ctx := context.Background()

	cases := []*models.OrderStatusChangedEvent{
		{BaseEvent: models.BaseEvent{EventID: ""}, OrderNumber: "P0000ABCD", Status: models.OrderStatusShipped},
		{BaseEvent: models.BaseEvent{EventID: "evt-2"}, OrderNumber: "P0000ABCD", Status: "Lost"},
		{BaseEvent: models.BaseEvent{EventID: "evt-3"}, OrderNumber: "PFFFFFFFF", Status: models.OrderStatusShipped},
	}
	for _, ev := range cases {
		assert.NoError(t, f.svc.HandleStatusEvent(ctx, ev))
	}

	assert.Empty(t, f.messenger.bodies("218910000100"))
	processed, err := f.store.IsEventProcessed(ctx, "evt-3")
	require.NoError(t, err)
	assert.False(t, processed)
}
