package models

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds to cents, halves away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApplyDiscount returns price reduced by percentage (0 to 100 inclusive), rounded to cents.
//
// The product price*(100-percentage) is shifted two places instead of divided, so
// no precision is lost before rounding.
func ApplyDiscount(price, percentage decimal.Decimal) (decimal.Decimal, error) {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return decimal.Decimal{}, NewSentinelValidationError("desconto", ErrPercentageOutOfRange)
	}
	return RoundMoney(price.Mul(hundred.Sub(percentage)).Shift(-2)), nil
}
