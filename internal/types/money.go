package types

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundCurrency rounds an amount to two decimal places, half away from zero
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// ToMinorUnits converts a currency amount to cents, rounding to the nearest cent
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
