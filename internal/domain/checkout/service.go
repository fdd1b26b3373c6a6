package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultDelay = 2 * time.Second

var ErrEmptyCart = errors.New("cart is empty")

// Order is a placed order. Nothing is charged or shipped.
type Order struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"`
	SessionID      string          `json:"session_id"`
	Items          []cart.LineItem `json:"items"`
	Summary        Summary         `json:"summary"`
	ShippingMethod ShippingMethod  `json:"shipping_method"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Email          string          `json:"email"`
	PlacedAt       time.Time       `json:"placed_at"`
}

// Carts opens the cart of a browsing session
type Carts interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
}

type Service struct {
	carts     Carts
	publisher event.Publisher
	logger    *zap.Logger
	delay     time.Duration
}

// NewService creates a checkout service. delay is the simulated processing
// time of an order; zero places orders immediately.
func NewService(carts Carts, publisher event.Publisher, logger *zap.Logger, delay time.Duration) *Service {
	if publisher == nil {
		publisher = event.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:     carts,
		publisher: publisher,
		logger:    logger.Named("checkout"),
		delay:     delay,
	}
}

// Quote summarizes the session's cart for a shipping method
func (s *Service) Quote(ctx context.Context, sessionID string, method ShippingMethod) (Summary, error) {
	if method == "" {
		method = ShippingStandard
	}
	c, err := s.carts.Open(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(c.Subtotal(), method)
}

// PlaceOrder validates the form, waits out the processing delay and then
// clears the cart. If ctx is cancelled during processing the cart is left
// untouched.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, form Form) (*Order, error) {
	c, err := s.carts.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(c.Items()) == 0 {
		return nil, ErrEmptyCart
	}

	form = form.WithDefaults()
	if err := form.Validate(); err != nil {
		return nil, err
	}

	if err := s.process(ctx); err != nil {
		s.logger.Info("order processing cancelled", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	// The cart may have changed while the order was processing.
	items, err := c.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	summary, err := Summarize(cart.Subtotal(items), form.ShippingMethod)
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:             uuid.New().String(),
		Number:         orderNumber(),
		SessionID:      sessionID,
		Items:          items,
		Summary:        summary,
		ShippingMethod: form.ShippingMethod,
		PaymentMethod:  form.PaymentMethod,
		Email:          form.Email,
		PlacedAt:       time.Now(),
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("session_id", sessionID),
		zap.String("total", summary.Total.StringFixed(2)))

	ev, err := event.New(order.ID, AggregateType, EventOrderPlaced, 1, OrderPlaced{
		OrderID:        order.ID,
		Number:         order.Number,
		SessionID:      sessionID,
		Email:          form.Email,
		CustomerName:   form.FirstName + " " + form.LastName,
		Items:          items,
		Summary:        summary,
		ShippingMethod: form.ShippingMethod,
		PlacedAt:       order.PlacedAt,
	})
	if err != nil {
		s.logger.Error("failed to build event", zap.Error(err))
		return order, nil
	}
	if err := s.publisher.Publish(ctx, sessionID, ev); err != nil {
		s.logger.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
	return order, nil
}

func (s *Service) process(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// orderNumber is the customer-facing reference, EV- and six digits
func orderNumber() string {
	return fmt.Sprintf("EV-%d", 100000+rand.IntN(900000))
}
