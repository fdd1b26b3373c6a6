package checkout

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit-card"
	PaymentPayPal     PaymentMethod = "paypal"
)

const DefaultCountry = "United States"

// Form is the customer input of the checkout page
type Form struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`

	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`

	ShippingMethod ShippingMethod `json:"shippingMethod"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod"`
}

// ValidationError reports the form fields that were missing or invalid.
// Field is the first of them.
type ValidationError struct {
	Field   string
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// WithDefaults fills the preselected values of the checkout page
func (f Form) WithDefaults() Form {
	if f.ShippingMethod == "" {
		f.ShippingMethod = ShippingStandard
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = PaymentCreditCard
	}
	if f.Country == "" {
		f.Country = DefaultCountry
	}
	return f
}

// Validate checks the form after defaults are applied
func (f Form) Validate() error {
	f = f.WithDefaults()

	if _, err := f.ShippingMethod.Cost(); err != nil {
		return &ValidationError{Field: "shippingMethod", Fields: []string{"shippingMethod"}, Message: err.Error()}
	}

	switch f.PaymentMethod {
	case PaymentCreditCard:
	case PaymentPayPal:
		return &ValidationError{Field: "paymentMethod", Fields: []string{"paymentMethod"}, Message: "PayPal is currently unavailable"}
	default:
		return &ValidationError{
			Field:   "paymentMethod",
			Fields:  []string{"paymentMethod"},
			Message: fmt.Sprintf("unknown payment method %q", string(f.PaymentMethod)),
		}
	}

	required := []struct {
		name  string
		value string
	}{
		{"email", f.Email},
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"zipCode", f.ZipCode},
		{"country", f.Country},
		{"cardName", f.CardName},
		{"cardNumber", f.CardNumber},
		{"expiry", f.Expiry},
		{"cvv", f.CVV},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Field:   missing[0],
			Fields:  missing,
			Message: "missing required fields: " + strings.Join(missing, ", "),
		}
	}

	if !strings.Contains(f.Email, "@") {
		return &ValidationError{Field: "email", Fields: []string{"email"}, Message: "email address is invalid"}
	}
	return nil
}
