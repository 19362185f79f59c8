package models

import "github.com/shopspring/decimal"

func init() {
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds to currency precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// OrderTotal applies a percentage discount to the subtotal and adds the
// delivery charge.
func OrderTotal(subtotal, discountPercent, deliveryCharge decimal.Decimal) decimal.Decimal {
	discount := subtotal.Mul(discountPercent).Div(decimal.NewFromInt(100))
	return RoundMoney(subtotal.Sub(discount).Add(deliveryCharge))
}
