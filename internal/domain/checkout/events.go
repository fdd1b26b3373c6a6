package checkout

import (
	"time"

	"github.com/example/storefront/internal/domain/cart"
)

const AggregateType = "Order"

const EventOrderPlaced = "OrderPlaced"

type OrderPlaced struct {
	OrderID        string          `json:"order_id"`
	Number         string          `json:"number"`
	SessionID      string          `json:"session_id"`
	Email          string          `json:"email"`
	CustomerName   string          `json:"customer_name"`
	Items          []cart.LineItem `json:"items"`
	Summary        Summary         `json:"summary"`
	ShippingMethod ShippingMethod  `json:"shipping_method"`
	PlacedAt       time.Time       `json:"placed_at"`
}
