package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

var ErrUnknownShipping = errors.New("unknown shipping method")

var (
	expressShipping = decimal.NewFromInt(15)
	taxRate         = decimal.RequireFromString("0.08")
)

// Cost is the flat shipping charge of the method
func (m ShippingMethod) Cost() (decimal.Decimal, error) {
	switch m {
	case ShippingStandard:
		return decimal.Zero, nil
	case ShippingExpress:
		return expressShipping, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownShipping, string(m))
	}
}

// Summary is the order total breakdown shown beside the checkout form
type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize computes shipping, tax and total for a cart subtotal.
// Tax is 8% of the subtotal rounded to cents.
func Summarize(subtotal decimal.Decimal, method ShippingMethod) (Summary, error) {
	shipping, err := method.Cost()
	if err != nil {
		return Summary{}, err
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Summary{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}, nil
}
