package cart

import "time"

const AggregateType = "Cart"

const (
	EventItemAdded             = "ItemAddedToCart"
	EventItemQuantityIncreased = "CartItemQuantityIncreased"
	EventItemRemoved           = "ItemRemovedFromCart"
	EventItemQuantityUpdated   = "CartItemQuantityUpdated"
	EventCartCleared           = "CartCleared"
)

type ItemAddedToCart struct {
	SessionID string    `json:"session_id"`
	Item      LineItem  `json:"item"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItemQuantityIncreased is emitted when an add hits an existing line item.
// Item carries the new total quantity.
type CartItemQuantityIncreased struct {
	SessionID     string    `json:"session_id"`
	Item          LineItem  `json:"item"`
	AddedQuantity int       `json:"added_quantity"`
	AddedAt       time.Time `json:"added_at"`
}

type ItemRemovedFromCart struct {
	SessionID string    `json:"session_id"`
	Item      LineItem  `json:"item"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartItemQuantityUpdated struct {
	SessionID        string    `json:"session_id"`
	Item             LineItem  `json:"item"`
	PreviousQuantity int       `json:"previous_quantity"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type CartCleared struct {
	SessionID string    `json:"session_id"`
	ItemCount int       `json:"item_count"`
	ClearedAt time.Time `json:"cleared_at"`
}
