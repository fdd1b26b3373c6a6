package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	Name     string
	Variant  string
	Quantity int
	Price    decimal.Decimal
}

// BuildOrderConfirmationBody builds the HTML body for order confirmation email
func BuildOrderConfirmationBody(c Confirmation) string {
	var itemsHTML strings.Builder
	for _, item := range c.Items {
		name := html.EscapeString(item.Name)
		if item.Variant != "" {
			name += fmt.Sprintf(`<br><span style="font-size: 12px; color: #999;">%s</span>`, html.EscapeString(item.Variant))
		}
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 12px; border-bottom: 1px solid #333;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #333; text-align: center;">%d</td>
				<td style="padding: 12px; border-bottom: 1px solid #333; text-align: right;">%s</td>
				<td style="padding: 12px; border-bottom: 1px solid #333; text-align: right;">%s</td>
			</tr>`,
			name,
			item.Quantity,
			FormatUSD(item.Price),
			FormatUSD(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
		))
	}

	shipping := "Free"
	if !c.Shipping.IsZero() {
		shipping = FormatUSD(c.Shipping)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #eee; background: #0a0a0a; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #ff00ff 0%%, #00ffff 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thank you for your order, %s</h1>
	</div>

	<div style="background: #111; padding: 30px; border: 1px solid #333; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Your order has been confirmed and will be shipped shortly.</p>

		<div style="background: #1a1a1a; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #999;">Order Number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<h2 style="font-size: 18px; border-bottom: 2px solid #ff00ff; padding-bottom: 10px;">Order Summary</h2>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #1a1a1a;">
					<th style="padding: 12px; text-align: left; font-weight: 600;">Item</th>
					<th style="padding: 12px; text-align: center; font-weight: 600;">Qty</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Price</th>
					<th style="padding: 12px; text-align: right; font-weight: 600;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
		</table>

		<table style="width: 100%%; padding: 20px; background: #1a1a1a; border-radius: 5px;">
			<tr><td>Subtotal</td><td style="text-align: right;">%s</td></tr>
			<tr><td>Shipping</td><td style="text-align: right;">%s</td></tr>
			<tr><td>Tax</td><td style="text-align: right;">%s</td></tr>
			<tr><td style="font-weight: bold;">Total</td><td style="text-align: right; font-size: 24px; font-weight: bold; color: #ff00ff;">%s</td></tr>
		</table>

		<hr style="border: none; border-top: 1px solid #333; margin: 30px 0;">

		<p style="font-size: 12px; color: #666; margin-bottom: 0;">
			This email was sent automatically. If you have any questions, please contact support.
		</p>
	</div>
</body>
</html>`,
		html.EscapeString(c.CustomerName),
		html.EscapeString(c.OrderNumber),
		itemsHTML.String(),
		FormatUSD(c.Subtotal),
		shipping,
		FormatUSD(c.Tax),
		FormatUSD(c.Total),
	)
}

// FormatUSD renders an amount as $1,234.56
func FormatUSD(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(whole) + "." + cents
}

// groupThousands inserts comma separators into a digit string
func groupThousands(str string) string {
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(",")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
