package service

import (
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// TicketPrice computes the fare for one ticket:
//
//	base_price x fare_multiplier x (1 - discount_percent/100)
//
// rounded half-up to 2 decimal places. A 0% discount yields the full
// price, a 100% discount yields 0.00.
func TicketPrice(basePrice, fareMultiplier decimal.Decimal, discountPercent int) decimal.Decimal {
	discount := decimal.NewFromInt(int64(discountPercent)).Div(hundred)
	return basePrice.
		Mul(fareMultiplier).
		Mul(one.Sub(discount)).
		Round(2)
}
