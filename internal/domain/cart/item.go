package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrCorruptSnapshot = errors.New("corrupt cart snapshot")

// LineItem is one product/size/color combination in the cart.
// Name, price and image are copied from the product when it is added.
type LineItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
}

// Key identifies a line item
type Key struct {
	ID    int    `json:"id"`
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

func (i LineItem) Key() Key {
	return Key{ID: i.ID, Size: i.Size, Color: i.Color}
}

// LineTotal is price × quantity
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// EncodeSnapshot serializes the item sequence for the durable slot
func EncodeSnapshot(items []LineItem) ([]byte, error) {
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(items)
}

// DecodeSnapshot parses a durable slot. Anything that is not a JSON
// array of valid line items yields ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	for i, item := range items {
		if item.ID < 1 || item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d has id %d quantity %d", ErrCorruptSnapshot, i, item.ID, item.Quantity)
		}
	}
	return items, nil
}
