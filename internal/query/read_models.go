package query

import (
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductDetail is the product page: the product with its preselected
// variant and a row of related products
type ProductDetail struct {
	Product      catalog.Product   `json:"product"`
	Images       []string          `json:"images"`
	DefaultSize  string            `json:"default_size,omitempty"`
	DefaultColor string            `json:"default_color,omitempty"`
	Related      []catalog.Product `json:"related"`
}

// CartView is the cart drawer of a session
type CartView struct {
	SessionID  string          `json:"session_id"`
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
