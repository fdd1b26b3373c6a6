package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/checkout"
	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, e event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) last() event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

func newTestHandler(t *testing.T) (*Handler, *cart.Manager, *mocks.MockSlotStore, *recordingPublisher) {
	t.Helper()
	slots := mocks.NewMockSlotStore()
	pub := &recordingPublisher{}
	carts, err := cart.NewManager(slots, pub, nil, 8)
	require.NoError(t, err)
	checkoutSvc := checkout.NewService(carts, pub, nil, 0)
	return NewHandler(catalog.Seed(), carts, checkoutSvc), carts, slots, pub
}

func items(t *testing.T, carts *cart.Manager, sessionID string) []cart.LineItem {
	t.Helper()
	c, err := carts.Open(context.Background(), sessionID)
	require.NoError(t, err)
	return c.Items()
}

// ============================================
// Add To Cart Tests
// ============================================

func TestHandler_AddToCart_Success(t *testing.T) {
	handler, carts, slots, pub := newTestHandler(t)
	ctx := context.Background()

	item, err := handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 1, Quantity: 1, Size: "S", Color: "Black"})

	require.NoError(t, err)
	assert.Equal(t, "Neon Dreams Tee", item.Name)
	assert.Equal(t, "89.99", item.Price.StringFixed(2))
	assert.Equal(t, "/placeholder.svg?height=600&width=400", item.Image)
	assert.Len(t, items(t, carts, "s1"), 1)
	assert.Len(t, slots.SaveCalls, 1)
	assert.Equal(t, cart.EventItemAdded, pub.last().EventType)
}

func TestHandler_AddToCart_Twice(t *testing.T) {
	handler, carts, _, pub := newTestHandler(t)
	ctx := context.Background()

	_, err := handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 1, Quantity: 1, Size: "S", Color: "Black"})
	require.NoError(t, err)
	item, err := handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 1, Quantity: 2, Size: "S", Color: "Black"})
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	got := items(t, carts, "s1")
	require.Len(t, got, 1)
	assert.Equal(t, "269.97", cart.Subtotal(got).StringFixed(2))
	assert.Equal(t, cart.EventItemQuantityIncreased, pub.last().EventType)
}

func TestHandler_AddToCart_ProductNotFound(t *testing.T) {
	handler, carts, _, _ := newTestHandler(t)

	_, err := handler.AddToCart(context.Background(), AddToCart{SessionID: "s1", ProductID: 99, Quantity: 1})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	assert.Empty(t, items(t, carts, "s1"))
}

func TestHandler_AddToCart_Validation(t *testing.T) {
	tests := []struct {
		name      string
		cmd       AddToCart
		wantField string
		wantMsg   string
	}{
		{"missing size", AddToCart{ProductID: 1, Quantity: 1, Color: "Black"}, "size", "Please select a size"},
		{"missing color", AddToCart{ProductID: 1, Quantity: 1, Size: "S"}, "color", "Please select a color"},
		{"size not offered", AddToCart{ProductID: 4, Quantity: 1, Size: "S", Color: "White"}, "size", ""},
		{"color not offered", AddToCart{ProductID: 1, Quantity: 1, Size: "S", Color: "Purple"}, "color", ""},
		{"zero quantity", AddToCart{ProductID: 1, Quantity: 0, Size: "S", Color: "Black"}, "quantity", ""},
		{"quantity above limit", AddToCart{ProductID: 1, Quantity: 1000, Size: "S", Color: "Black"}, "quantity", "Quantity must be at most 999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, carts, slots, _ := newTestHandler(t)
			tt.cmd.SessionID = "s1"

			_, err := handler.AddToCart(context.Background(), tt.cmd)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, verr.Message)
			}
			assert.Empty(t, items(t, carts, "s1"))
			assert.Empty(t, slots.SaveCalls)
		})
	}
}

func TestHandler_AddToCart_PersistFailure(t *testing.T) {
	handler, carts, slots, _ := newTestHandler(t)
	slots.SaveErr = errors.New("disk full")

	_, err := handler.AddToCart(context.Background(), AddToCart{SessionID: "s1", ProductID: 1, Quantity: 1, Size: "S", Color: "Black"})

	assert.Error(t, err)
	assert.Empty(t, items(t, carts, "s1"))
}

func TestHandler_QuickAdd(t *testing.T) {
	handler, carts, _, _ := newTestHandler(t)
	ctx := context.Background()

	item, err := handler.QuickAdd(ctx, QuickAdd{SessionID: "s1", ProductID: 4})

	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "M", item.Size)
	assert.Equal(t, "White", item.Color)

	_, err = handler.QuickAdd(ctx, QuickAdd{SessionID: "s1", ProductID: 4})
	require.NoError(t, err)
	got := items(t, carts, "s1")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Quantity)
}

func TestHandler_QuickAdd_NotFound(t *testing.T) {
	handler, _, _, _ := newTestHandler(t)

	_, err := handler.QuickAdd(context.Background(), QuickAdd{SessionID: "s1", ProductID: 0})

	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

// ============================================
// Update / Remove / Clear Tests
// ============================================

func TestHandler_UpdateQuantity(t *testing.T) {
	handler, carts, _, _ := newTestHandler(t)
	ctx := context.Background()
	_, _ = handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 5, Quantity: 1, Size: "M", Color: "Red"})

	item, err := handler.UpdateQuantity(ctx, UpdateQuantity{SessionID: "s1", ProductID: 5, Size: "M", Color: "Red", Quantity: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 3, items(t, carts, "s1")[0].Quantity)
}

func TestHandler_UpdateQuantity_ZeroRemoves(t *testing.T) {
	handler, carts, _, pub := newTestHandler(t)
	ctx := context.Background()
	_, _ = handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 5, Quantity: 1, Size: "M", Color: "Red"})

	_, err := handler.UpdateQuantity(ctx, UpdateQuantity{SessionID: "s1", ProductID: 5, Size: "M", Color: "Red", Quantity: 0})

	require.NoError(t, err)
	assert.Empty(t, items(t, carts, "s1"))
	assert.Equal(t, cart.EventItemRemoved, pub.last().EventType)
}

func TestHandler_RemoveFromCart_KeepsOtherVariants(t *testing.T) {
	handler, carts, _, _ := newTestHandler(t)
	ctx := context.Background()
	_, _ = handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 1, Quantity: 1, Size: "S", Color: "Black"})
	_, _ = handler.AddToCart(ctx, AddToCart{SessionID: "s1", ProductID: 1, Quantity: 1, Size: "S", Color: "Red"})

	removed, err := handler.RemoveFromCart(ctx, RemoveFromCart{SessionID: "s1", ProductID: 1, Size: "S", Color: "Red"})

	require.NoError(t, err)
	assert.Equal(t, "Red", removed.Color)
	got := items(t, carts, "s1")
	require.Len(t, got, 1)
	assert.Equal(t, "Black", got[0].Color)
}

func TestHandler_RemoveFromCart_NotFound(t *testing.T) {
	handler, _, _, _ := newTestHandler(t)

	_, err := handler.RemoveFromCart(context.Background(), RemoveFromCart{SessionID: "s1", ProductID: 1})

	assert.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestHandler_ClearCart(t *testing.T) {
	handler, carts, _, pub := newTestHandler(t)
	ctx := context.Background()
	_, _ = handler.QuickAdd(ctx, QuickAdd{SessionID: "s1", ProductID: 1})
	_, _ = handler.QuickAdd(ctx, QuickAdd{SessionID: "s1", ProductID: 2})

	require.NoError(t, handler.ClearCart(ctx, ClearCart{SessionID: "s1"}))

	assert.Empty(t, items(t, carts, "s1"))
	assert.Equal(t, cart.EventCartCleared, pub.last().EventType)
}

func TestHandler_EmptySession(t *testing.T) {
	handler, _, _, _ := newTestHandler(t)

	err := handler.ClearCart(context.Background(), ClearCart{})

	assert.ErrorIs(t, err, cart.ErrEmptySession)
}

// ============================================
// Place Order Tests
// ============================================

func TestHandler_PlaceOrder(t *testing.T) {
	handler, carts, _, pub := newTestHandler(t)
	ctx := context.Background()
	_, _ = handler.QuickAdd(ctx, QuickAdd{SessionID: "s1", ProductID: 6})

	order, err := handler.PlaceOrder(ctx, PlaceOrder{SessionID: "s1", Form: checkout.Form{
		Email: "a@b.c", FirstName: "A", LastName: "B", Address: "1 St", City: "C", State: "S", ZipCode: "1",
		CardName: "A B", CardNumber: "4111", Expiry: "01/30", CVV: "999",
	}})

	require.NoError(t, err)
	assert.Equal(t, "161.99", order.Summary.Total.StringFixed(2))
	assert.Empty(t, items(t, carts, "s1"))
	assert.Equal(t, checkout.EventOrderPlaced, pub.last().EventType)
}

func TestHandler_PlaceOrder_EmptyCart(t *testing.T) {
	handler, _, _, _ := newTestHandler(t)

	_, err := handler.PlaceOrder(context.Background(), PlaceOrder{SessionID: "s1"})

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
}
