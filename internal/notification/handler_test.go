package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"sync"
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/checkout"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu            sync.Mutex
	notifications []Notification
	err           error
}

func (s *recordingSink) Notify(ctx context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return s.err
}

type sentMail struct {
	to  []string
	msg string
}

func newTestHandler() (*Handler, *recordingSink, *[]sentMail) {
	sink := &recordingSink{}
	sent := &[]sentMail{}
	svc := email.NewService("localhost", "1025", "shop@example.com").WithSender(
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			*sent = append(*sent, sentMail{to: to, msg: string(msg)})
			return nil
		})
	return NewHandler(sink, svc, nil), sink, sent
}

func tee(qty int) cart.LineItem {
	return cart.LineItem{ID: 1, Name: "Neon Dreams Tee", Price: decimal.RequireFromString("89.99"), Quantity: qty, Size: "S", Color: "Black"}
}

func mustEvent(t *testing.T, aggregateType, eventType string, data any) event.Event {
	t.Helper()
	e, err := event.New("s1", aggregateType, eventType, 1, data)
	require.NoError(t, err)
	return e
}

// ============================================
// Notification Text Tests
// ============================================

func TestBuild_CartEvents(t *testing.T) {
	tests := []struct {
		name      string
		eventType string
		data      any
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "item added",
			eventType: cart.EventItemAdded,
			data:      cart.ItemAddedToCart{SessionID: "s1", Item: tee(1)},
			wantTitle: "Added to cart",
			wantDesc:  "Neon Dreams Tee added to your cart",
		},
		{
			name:      "quantity increased",
			eventType: cart.EventItemQuantityIncreased,
			data:      cart.CartItemQuantityIncreased{SessionID: "s1", Item: tee(3), AddedQuantity: 2},
			wantTitle: "Cart updated",
			wantDesc:  "Neon Dreams Tee quantity increased to 3",
		},
		{
			name:      "item removed",
			eventType: cart.EventItemRemoved,
			data:      cart.ItemRemovedFromCart{SessionID: "s1", Item: tee(1)},
			wantTitle: "Removed from cart",
			wantDesc:  "Neon Dreams Tee removed from your cart",
		},
		{
			name:      "quantity updated",
			eventType: cart.EventItemQuantityUpdated,
			data:      cart.CartItemQuantityUpdated{SessionID: "s1", Item: tee(5), PreviousQuantity: 1},
			wantTitle: "Cart updated",
			wantDesc:  "Neon Dreams Tee quantity set to 5",
		},
		{
			name:      "cart cleared",
			eventType: cart.EventCartCleared,
			data:      cart.CartCleared{SessionID: "s1", ItemCount: 2},
			wantTitle: "Cart cleared",
			wantDesc:  "All items have been removed from your cart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok, err := Build(mustEvent(t, cart.AggregateType, tt.eventType, tt.data))

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "s1", n.SessionID)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantDesc, n.Description)
			assert.Equal(t, VariantDefault, n.Variant)
			assert.Equal(t, tt.eventType, n.EventType)
		})
	}
}

func TestBuild_UnknownEventIgnored(t *testing.T) {
	_, ok, err := Build(mustEvent(t, "Other", "SomethingHappened", map[string]string{}))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuild_MalformedPayload(t *testing.T) {
	e := event.Event{EventType: cart.EventItemAdded, Data: json.RawMessage(`"nope"`)}

	_, _, err := Build(e)

	assert.Error(t, err)
}

// ============================================
// Handler Tests
// ============================================

func TestHandler_Handle_DeliversToSink(t *testing.T) {
	handler, sink, sent := newTestHandler()

	err := handler.Handle(context.Background(), mustEvent(t, cart.AggregateType, cart.EventItemAdded, cart.ItemAddedToCart{SessionID: "s1", Item: tee(1)}))

	require.NoError(t, err)
	require.Len(t, sink.notifications, 1)
	assert.Equal(t, "Added to cart", sink.notifications[0].Title)
	assert.Empty(t, *sent)
}

func TestHandler_Handle_SinkFailureIsNotFatal(t *testing.T) {
	handler, sink, _ := newTestHandler()
	sink.err = errors.New("client gone")

	err := handler.Handle(context.Background(), mustEvent(t, cart.AggregateType, cart.EventCartCleared, cart.CartCleared{SessionID: "s1"}))

	assert.NoError(t, err)
}

func orderPlaced() checkout.OrderPlaced {
	return checkout.OrderPlaced{
		OrderID:      "order-1",
		Number:       "EV-654321",
		SessionID:    "s1",
		Email:        "jane@example.com",
		CustomerName: "Jane Doe",
		Items:        []cart.LineItem{tee(2)},
		Summary: checkout.Summary{
			Subtotal: decimal.RequireFromString("179.98"),
			Shipping: decimal.NewFromInt(15),
			Tax:      decimal.RequireFromString("14.40"),
			Total:    decimal.RequireFromString("209.38"),
		},
		ShippingMethod: checkout.ShippingExpress,
	}
}

func TestHandler_HandleEvent_OrderPlacedSendsEmail(t *testing.T) {
	handler, sink, sent := newTestHandler()
	value, err := json.Marshal(mustEvent(t, checkout.AggregateType, checkout.EventOrderPlaced, orderPlaced()))
	require.NoError(t, err)

	err = handler.HandleEvent(context.Background(), []byte("s1"), value)

	require.NoError(t, err)
	require.Len(t, sink.notifications, 1)
	assert.Equal(t, "Order placed successfully!", sink.notifications[0].Title)
	assert.Equal(t, "Thank you for your purchase. You will receive a confirmation email shortly.", sink.notifications[0].Description)

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, []string{"jane@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "EV-654321")
	assert.Contains(t, mail.msg, "S / Black")
	assert.Contains(t, mail.msg, "$209.38")
	assert.Contains(t, mail.msg, "$15.00")
}

func TestHandler_OrderPlaced_NoEmailService(t *testing.T) {
	sink := &recordingSink{}
	handler := NewHandler(sink, nil, nil)

	err := handler.Handle(context.Background(), mustEvent(t, checkout.AggregateType, checkout.EventOrderPlaced, orderPlaced()))

	require.NoError(t, err)
	assert.Len(t, sink.notifications, 1)
}

func TestHandler_OrderPlaced_EmailFailure(t *testing.T) {
	svc := email.NewService("localhost", "25", "shop@example.com").WithSender(
		func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") })
	handler := NewHandler(nil, svc, nil)

	err := handler.Handle(context.Background(), mustEvent(t, checkout.AggregateType, checkout.EventOrderPlaced, orderPlaced()))

	assert.ErrorContains(t, err, "connection refused")
}

func TestHandler_HandleEvent_InvalidJSON(t *testing.T) {
	handler, _, _ := newTestHandler()

	err := handler.HandleEvent(context.Background(), nil, []byte("{not json"))

	assert.Error(t, err)
}

func TestHandler_PublishFromStore(t *testing.T) {
	sink := &recordingSink{}
	handler := NewHandler(sink, nil, nil)
	var p event.Publisher = handler

	require.NoError(t, p.Publish(context.Background(), "s1", mustEvent(t, cart.AggregateType, cart.EventItemRemoved, cart.ItemRemovedFromCart{SessionID: "s1", Item: tee(1)})))

	require.Len(t, sink.notifications, 1)
	assert.Equal(t, "Removed from cart", sink.notifications[0].Title)
}
