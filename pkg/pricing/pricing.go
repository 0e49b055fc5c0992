package pricing

import (
	"github.com/shopspring/decimal"
)

// Checkout pricing rules. Tax applies to the merchandise subtotal only;
// shipping is a flat fee waived once the subtotal reaches the free-shipping
// threshold.
var (
	taxRate               = decimal.NewFromFloat(0.10)
	flatShippingFee       = decimal.NewFromInt(5)
	freeShippingThreshold = decimal.NewFromInt(50)
)

// Quote is an order total broken into its components. All values are rounded
// to cents.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	ShippingFee float64 `json:"shipping_fee"`
	Total       float64 `json:"total"`
}

// Line is a priced order line: unit price at purchase time and quantity.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// LineTotal returns unit price times quantity, rounded to cents.
func LineTotal(unitPrice float64, quantity int) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	return round(total)
}

// QuoteOrder computes subtotal, 10% tax and shipping for a set of lines.
// Decimal arithmetic avoids the float drift a naive sum would accumulate.
func QuoteOrder(lines []Line) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(taxRate).Round(2)

	shipping := flatShippingFee
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	total := subtotal.Add(tax).Add(shipping).Round(2)

	return Quote{
		Subtotal:    round(subtotal),
		TaxAmount:   round(tax),
		ShippingFee: round(shipping),
		Total:       round(total),
	}
}

// Profit returns (price − cost) × quantity rounded to cents. Used by the
// seller dashboard and sales report.
func Profit(price, cost float64, quantity int) float64 {
	margin := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(cost))
	return round(margin.Mul(decimal.NewFromInt(int64(quantity))))
}

func round(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
