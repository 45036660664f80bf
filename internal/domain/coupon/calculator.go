package coupon

import (
	"github.com/shopspring/decimal"
	"github.com/upassistify/upassistify/internal/types"
)

var hundred = decimal.NewFromInt(100)

// Quote is the outcome of applying a discount to a price
type Quote struct {
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
}

// Compute derives the discount and the final price for an original price.
//
//	percentage: discount = round2(price * value / 100)
//	fixed:      discount = round2(value)
//	final:      max(0, round2(price) - discount)
//
// Unknown discount types produce no discount.
func Compute(discountType types.DiscountType, discountValue, originalPrice decimal.Decimal) Quote {
	var discount decimal.Decimal

	switch discountType {
	case types.DiscountTypePercentage:
		discount = types.RoundCurrency(originalPrice.Mul(discountValue).Div(hundred))
	case types.DiscountTypeFixed:
		discount = types.RoundCurrency(discountValue)
	default:
		discount = decimal.Zero
	}

	final := types.RoundCurrency(originalPrice).Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Quote{
		DiscountAmount: discount,
		FinalPrice:     final,
	}
}
