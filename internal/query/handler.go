package query

import (
	"context"
	"fmt"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
)

const relatedCount = 4

var detailImages = []string{
	"/placeholder.svg?height=800&width=600",
	"/placeholder.svg?height=800&width=600&text=Angle+2",
	"/placeholder.svg?height=800&width=600&text=Angle+3",
	"/placeholder.svg?height=800&width=600&text=Angle+4",
}

// Carts opens the cart of a browsing session
type Carts interface {
	Open(ctx context.Context, sessionID string) (*cart.Store, error)
}

type Handler struct {
	catalog *catalog.Catalog
	carts   Carts
}

func NewHandler(c *catalog.Catalog, carts Carts) *Handler {
	return &Handler{catalog: c, carts: carts}
}

// Products
func (h *Handler) ListProducts(cr catalog.Criteria) catalog.Result {
	return h.catalog.Query(cr)
}

// GetProduct returns the product page of id with the first size and
// color preselected
func (h *Handler) GetProduct(id int) (*ProductDetail, error) {
	p, err := h.catalog.Get(id)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		Product: p,
		Images:  append([]string(nil), detailImages...),
		Related: h.catalog.Related(id, relatedCount),
	}
	if len(p.Sizes) > 0 {
		detail.DefaultSize = p.Sizes[0]
	}
	if len(p.Colors) > 0 {
		detail.DefaultColor = p.Colors[0]
	}
	return detail, nil
}

// Cart
func (h *Handler) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	c, err := h.carts.Open(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to open cart: %w", err)
	}
	items := c.Items()
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return &CartView{
		SessionID:  sessionID,
		Items:      items,
		TotalItems: total,
		Subtotal:   cart.Subtotal(items),
	}, nil
}
