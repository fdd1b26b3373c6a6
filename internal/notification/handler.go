package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/checkout"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/event"
	"go.uber.org/zap"
)

// Handler processes events for sending notifications
type Handler struct {
	sink         Sink
	emailService *email.Service
	logger       *zap.Logger
}

// NewHandler creates a new notification handler. emailSvc may be nil, in
// which case no confirmation emails are sent.
func NewHandler(sink Sink, emailSvc *email.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sink:         sink,
		emailService: emailSvc,
		logger:       logger.Named("notifier"),
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var e event.Event
	if err := json.Unmarshal(value, &e); err != nil {
		h.logger.Error("failed to unmarshal event", zap.ByteString("key", key), zap.Error(err))
		return err
	}
	return h.Handle(ctx, e)
}

// Publish lets the handler sit directly behind a cart or checkout
// publisher in the same process
func (h *Handler) Publish(ctx context.Context, key string, e event.Event) error {
	return h.Handle(ctx, e)
}

// Handle turns a domain event into a notification. Events that have no
// notification are ignored.
func (h *Handler) Handle(ctx context.Context, e event.Event) error {
	n, ok, err := Build(e)
	if err != nil {
		h.logger.Error("failed to decode event",
			zap.String("event_type", e.EventType),
			zap.String("event_id", e.ID),
			zap.Error(err))
		return err
	}
	if !ok {
		return nil
	}

	if h.sink != nil {
		if err := h.sink.Notify(ctx, n); err != nil {
			h.logger.Warn("failed to deliver notification", zap.String("session_id", n.SessionID), zap.Error(err))
		}
	}

	if e.EventType == checkout.EventOrderPlaced {
		return h.handleOrderPlaced(e)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(e event.Event) error {
	if h.emailService == nil {
		return nil
	}

	var data checkout.OrderPlaced
	if err := e.Decode(&data); err != nil {
		return err
	}
	if data.Email == "" {
		h.logger.Warn("order has no email address", zap.String("order_id", data.OrderID))
		return nil
	}

	items := make([]email.OrderItem, len(data.Items))
	for i, item := range data.Items {
		items[i] = email.OrderItem{
			Name:     item.Name,
			Variant:  variant(item),
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	err := h.emailService.SendOrderConfirmation(data.Email, email.Confirmation{
		OrderNumber:  data.Number,
		CustomerName: data.CustomerName,
		Items:        items,
		Subtotal:     data.Summary.Subtotal,
		Shipping:     data.Summary.Shipping,
		Tax:          data.Summary.Tax,
		Total:        data.Summary.Total,
	})
	if err != nil {
		h.logger.Error("failed to send confirmation email",
			zap.String("order_id", data.OrderID),
			zap.String("to", data.Email),
			zap.Error(err))
		return err
	}

	h.logger.Info("order confirmation email sent", zap.String("order_id", data.OrderID), zap.String("to", data.Email))
	return nil
}

// Build maps a domain event to its notification. ok is false for events
// that are not shown to the shopper.
func Build(e event.Event) (n Notification, ok bool, err error) {
	n = Notification{Variant: VariantDefault, EventType: e.EventType, Timestamp: e.Timestamp}

	switch e.EventType {
	case cart.EventItemAdded:
		var data cart.ItemAddedToCart
		if err := e.Decode(&data); err != nil {
			return Notification{}, false, err
		}
		n.SessionID = data.SessionID
		n.Title = "Added to cart"
		n.Description = fmt.Sprintf("%s added to your cart", data.Item.Name)

	case cart.EventItemQuantityIncreased:
		var data cart.CartItemQuantityIncreased
		if err := e.Decode(&data); err != nil {
			return Notification{}, false, err
		}
		n.SessionID = data.SessionID
		n.Title = "Cart updated"
		n.Description = fmt.Sprintf("%s quantity increased to %d", data.Item.Name, data.Item.Quantity)

	case cart.EventItemRemoved:
		var data cart.ItemRemovedFromCart
		if err := e.Decode(&data); err != nil {
			return Notification{}, false, err
		}
		n.SessionID = data.SessionID
		n.Title = "Removed from cart"
		n.Description = fmt.Sprintf("%s removed from your cart", data.Item.Name)

	case cart.EventItemQuantityUpdated:
		var data cart.CartItemQuantityUpdated
		if err := e.Decode(&data); err != nil {
			return Notification{}, false, err
		}
		n.SessionID = data.SessionID
		n.Title = "Cart updated"
		n.Description = fmt.Sprintf("%s quantity set to %d", data.Item.Name, data.Item.Quantity)

	case cart.EventCartCleared:
		var data cart.CartCleared
		if err := e.Decode(&data); err != nil {
			return Notification{}, false, err
		}
		n.SessionID = data.SessionID
		n.Title = "Cart cleared"
		n.Description = "All items have been removed from your cart"

	case checkout.EventOrderPlaced:
		var data checkout.OrderPlaced
		if err := e.Decode(&data); err != nil {
			return Notification{}, false, err
		}
		n.SessionID = data.SessionID
		n.Title = "Order placed successfully!"
		n.Description = "Thank you for your purchase. You will receive a confirmation email shortly."

	default:
		return Notification{}, false, nil
	}
	return n, true, nil
}

func variant(item cart.LineItem) string {
	var parts []string
	if item.Size != "" {
		parts = append(parts, item.Size)
	}
	if item.Color != "" {
		parts = append(parts, item.Color)
	}
	return strings.Join(parts, " / ")
}
