package command

import "github.com/example/storefront/internal/domain/checkout"

// Cart Commands
type AddToCart struct {
	SessionID string `json:"-"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// QuickAdd is the add button of a product card: one unit of the first
// size and color
type QuickAdd struct {
	SessionID string `json:"-"`
	ProductID int    `json:"product_id"`
}

type UpdateQuantity struct {
	SessionID string `json:"-"`
	ProductID int    `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	SessionID string `json:"-"`
	ProductID int    `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

type ClearCart struct {
	SessionID string `json:"-"`
}

// Order Commands
type PlaceOrder struct {
	SessionID string        `json:"-"`
	Form      checkout.Form `json:"form"`
}
