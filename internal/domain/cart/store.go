package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/storefront/internal/event"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxQuantity bounds the quantity of a single line item
const MaxQuantity = 999

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrEmptySession    = errors.New("session id is required")
)

// SlotName returns the durable slot holding a session's cart
func SlotName(sessionID string) string {
	return "cart:" + sessionID
}

// Store is the cart of one browsing session. Every mutation writes the
// full item sequence to the session's slot before it takes effect.
type Store struct {
	mu        sync.Mutex
	sessionID string
	slot      string
	items     []LineItem
	version   int

	// stale is set once the store has left the manager's cache; the next
	// mutation re-reads the slot first
	stale atomic.Bool

	slots     store.SlotStore
	publisher event.Publisher
	logger    *zap.Logger
}

func NewStore(sessionID string, slots store.SlotStore, publisher event.Publisher, logger *zap.Logger) *Store {
	if publisher == nil {
		publisher = event.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessionID: sessionID,
		slot:      SlotName(sessionID),
		slots:     slots,
		publisher: publisher,
		logger:    logger.With(zap.String("session_id", sessionID)),
	}
}

// Load replaces the in-memory cart with the persisted snapshot.
// A missing slot leaves the cart empty; a malformed one is logged and
// discarded. Only backend failures are returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) error {
	data, ok, err := s.slots.Load(ctx, s.slot)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	s.stale.Store(false)
	s.items = nil
	if !ok {
		return nil
	}
	items, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding persisted cart", zap.Error(err))
		return nil
	}
	s.items = items
	return nil
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// AddItem merges item into the line with the same (id, size, color) or
// appends it. The item's name, price and image are taken as given.
func (s *Store) AddItem(ctx context.Context, item LineItem) (LineItem, error) {
	if item.ID < 1 {
		return LineItem{}, ErrInvalidProduct
	}
	if item.Quantity < 1 || item.Quantity > MaxQuantity {
		return LineItem{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	if err := s.refreshLocked(ctx); err != nil {
		s.mu.Unlock()
		return LineItem{}, err
	}
	next := s.cloneLocked()
	now := time.Now()

	var (
		result    LineItem
		eventType string
		data      any
	)
	if i := indexOf(next, item.Key()); i >= 0 {
		if item.Quantity > MaxQuantity-next[i].Quantity {
			s.mu.Unlock()
			return LineItem{}, fmt.Errorf("%w: %s already has %d", ErrInvalidQuantity, next[i].Name, next[i].Quantity)
		}
		next[i].Quantity += item.Quantity
		result = next[i]
		eventType = EventItemQuantityIncreased
		data = CartItemQuantityIncreased{SessionID: s.sessionID, Item: result, AddedQuantity: item.Quantity, AddedAt: now}
	} else {
		next = append(next, item)
		result = item
		eventType = EventItemAdded
		data = ItemAddedToCart{SessionID: s.sessionID, Item: item, AddedAt: now}
	}

	ev, err := s.commitLocked(ctx, next, eventType, data)
	s.mu.Unlock()
	if err != nil {
		return LineItem{}, err
	}

	s.publish(ctx, ev)
	return result, nil
}

// RemoveItem drops the line item with the given key
func (s *Store) RemoveItem(ctx context.Context, key Key) (LineItem, error) {
	s.mu.Lock()
	if err := s.refreshLocked(ctx); err != nil {
		s.mu.Unlock()
		return LineItem{}, err
	}
	i := indexOf(s.items, key)
	if i < 0 {
		s.mu.Unlock()
		return LineItem{}, fmt.Errorf("%w: %+v", ErrItemNotFound, key)
	}

	removed := s.items[i]
	next := make([]LineItem, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)

	ev, err := s.commitLocked(ctx, next, EventItemRemoved, ItemRemovedFromCart{
		SessionID: s.sessionID,
		Item:      removed,
		RemovedAt: time.Now(),
	})
	s.mu.Unlock()
	if err != nil {
		return LineItem{}, err
	}

	s.publish(ctx, ev)
	return removed, nil
}

// UpdateQuantity sets the quantity of a line item. A quantity below one
// removes the item so no line is ever kept at zero.
func (s *Store) UpdateQuantity(ctx context.Context, key Key, quantity int) (LineItem, error) {
	if quantity < 1 {
		removed, err := s.RemoveItem(ctx, key)
		if err != nil {
			return LineItem{}, err
		}
		removed.Quantity = 0
		return removed, nil
	}
	if quantity > MaxQuantity {
		return LineItem{}, ErrInvalidQuantity
	}

	s.mu.Lock()
	if err := s.refreshLocked(ctx); err != nil {
		s.mu.Unlock()
		return LineItem{}, err
	}
	i := indexOf(s.items, key)
	if i < 0 {
		s.mu.Unlock()
		return LineItem{}, fmt.Errorf("%w: %+v", ErrItemNotFound, key)
	}

	next := s.cloneLocked()
	previous := next[i].Quantity
	next[i].Quantity = quantity

	ev, err := s.commitLocked(ctx, next, EventItemQuantityUpdated, CartItemQuantityUpdated{
		SessionID:        s.sessionID,
		Item:             next[i],
		PreviousQuantity: previous,
		UpdatedAt:        time.Now(),
	})
	updated := next[i]
	s.mu.Unlock()
	if err != nil {
		return LineItem{}, err
	}

	s.publish(ctx, ev)
	return updated, nil
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.refreshLocked(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	ev, err := s.clearLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, ev)
	return nil
}

// Take empties the cart and returns the items it held, with no mutation
// in between. An empty cart is returned as nil and left as is.
func (s *Store) Take(ctx context.Context) ([]LineItem, error) {
	s.mu.Lock()
	if err := s.refreshLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if len(s.items) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	taken := s.cloneLocked()
	ev, err := s.clearLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ev)
	return taken, nil
}

func (s *Store) clearLocked(ctx context.Context) (event.Event, error) {
	return s.commitLocked(ctx, []LineItem{}, EventCartCleared, CartCleared{
		SessionID: s.sessionID,
		ItemCount: len(s.items),
		ClearedAt: time.Now(),
	})
}

// Items returns a copy of the line items in cart order
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneLocked()
}

// TotalItems is the sum of quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the sum of price × quantity
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

// Version counts the mutations applied since the store was opened
func (s *Store) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subtotal sums the line totals of items
func Subtotal(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// refreshLocked re-reads the slot if the store was evicted while in use
func (s *Store) refreshLocked(ctx context.Context) error {
	if !s.stale.Load() {
		return nil
	}
	s.logger.Debug("reloading evicted cart")
	return s.loadLocked(ctx)
}

// commitLocked persists next and, on success, makes it the current state
func (s *Store) commitLocked(ctx context.Context, next []LineItem, eventType string, data any) (event.Event, error) {
	snapshot, err := EncodeSnapshot(next)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.slots.Save(ctx, s.slot, snapshot); err != nil {
		return event.Event{}, fmt.Errorf("failed to persist cart: %w", err)
	}

	s.items = next
	s.version++

	ev, err := event.New(s.sessionID, AggregateType, eventType, s.version, data)
	if err != nil {
		s.logger.Error("failed to build event", zap.String("event_type", eventType), zap.Error(err))
	}
	return ev, nil
}

func (s *Store) publish(ctx context.Context, ev event.Event) {
	if ev.ID == "" {
		return
	}
	if err := s.publisher.Publish(ctx, s.sessionID, ev); err != nil {
		s.logger.Warn("failed to publish cart event",
			zap.String("event_type", ev.EventType),
			zap.Error(err))
	}
}

func (s *Store) cloneLocked() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func indexOf(items []LineItem, key Key) int {
	for i, item := range items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
