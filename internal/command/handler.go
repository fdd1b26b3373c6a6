package command

import (
	"context"
	"fmt"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/example/storefront/internal/domain/checkout"
)

// Carts opens the cart of a browsing session
type Carts interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
}

type Handler struct {
	catalog  *catalog.Catalog
	carts    Carts
	checkout *checkout.Service
}

func NewHandler(c *catalog.Catalog, carts Carts, checkoutSvc *checkout.Service) *Handler {
	return &Handler{
		catalog:  c,
		carts:    carts,
		checkout: checkoutSvc,
	}
}

// AddToCart adds the selected variant of a product to the session's cart
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (cart.LineItem, error) {
	p, err := h.catalog.Get(cmd.ProductID)
	if err != nil {
		return cart.LineItem{}, err
	}
	if err := validateSelection(p, cmd.Size, cmd.Color, cmd.Quantity); err != nil {
		return cart.LineItem{}, err
	}

	c, err := h.carts.Open(ctx, cmd.SessionID)
	if err != nil {
		return cart.LineItem{}, err
	}

	// Name, price and image are copied so the line item survives catalog changes
	return c.AddItem(ctx, cart.LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: cmd.Quantity,
		Size:     cmd.Size,
		Color:    cmd.Color,
	})
}

// QuickAdd adds one unit of the product's first size and color
func (h *Handler) QuickAdd(ctx context.Context, cmd QuickAdd) (cart.LineItem, error) {
	p, err := h.catalog.Get(cmd.ProductID)
	if err != nil {
		return cart.LineItem{}, err
	}

	add := AddToCart{SessionID: cmd.SessionID, ProductID: p.ID, Quantity: 1}
	if len(p.Sizes) > 0 {
		add.Size = p.Sizes[0]
	}
	if len(p.Colors) > 0 {
		add.Color = p.Colors[0]
	}
	return h.AddToCart(ctx, add)
}

// UpdateQuantity sets the quantity of a line item; below one removes it
func (h *Handler) UpdateQuantity(ctx context.Context, cmd UpdateQuantity) (cart.LineItem, error) {
	c, err := h.carts.Open(ctx, cmd.SessionID)
	if err != nil {
		return cart.LineItem{}, err
	}
	return c.UpdateQuantity(ctx, cart.Key{ID: cmd.ProductID, Size: cmd.Size, Color: cmd.Color}, cmd.Quantity)
}

// RemoveFromCart removes an item from cart
func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) (cart.LineItem, error) {
	c, err := h.carts.Open(ctx, cmd.SessionID)
	if err != nil {
		return cart.LineItem{}, err
	}
	return c.RemoveItem(ctx, cart.Key{ID: cmd.ProductID, Size: cmd.Size, Color: cmd.Color})
}

// ClearCart clears all items from cart
func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	c, err := h.carts.Open(ctx, cmd.SessionID)
	if err != nil {
		return err
	}
	return c.Clear(ctx)
}

// PlaceOrder checks out the session's cart
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*checkout.Order, error) {
	return h.checkout.PlaceOrder(ctx, cmd.SessionID, cmd.Form)
}

func validateSelection(p catalog.Product, size, color string, quantity int) error {
	if quantity < 1 {
		return &ValidationError{Field: "quantity", Message: "Quantity must be at least 1"}
	}
	if quantity > cart.MaxQuantity {
		return &ValidationError{Field: "quantity", Message: fmt.Sprintf("Quantity must be at most %d", cart.MaxQuantity)}
	}

	if len(p.Sizes) > 0 {
		if size == "" {
			return &ValidationError{Field: "size", Message: "Please select a size"}
		}
		if !p.HasSize(size) {
			return &ValidationError{Field: "size", Message: "Size " + size + " is not available for " + p.Name}
		}
	} else if size != "" {
		return &ValidationError{Field: "size", Message: p.Name + " is one size"}
	}

	if len(p.Colors) > 0 {
		if color == "" {
			return &ValidationError{Field: "color", Message: "Please select a color"}
		}
		if !p.HasColor(color) {
			return &ValidationError{Field: "color", Message: "Color " + color + " is not available for " + p.Name}
		}
	} else if color != "" {
		return &ValidationError{Field: "color", Message: p.Name + " has no color options"}
	}
	return nil
}
