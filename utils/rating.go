package utils

import (
	"github.com/shopspring/decimal"
)

// RatingDigits is the number of significant digits a product rating keeps
const RatingDigits = 2

// AverageRating returns the mean of ratings rounded to RatingDigits
// significant digits, or nil when there is no rating at all.
func AverageRating(ratings []float64) *float64 {
	if len(ratings) == 0 {
		return nil
	}

	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromFloat(r))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(ratings))))

	avg := RoundSignificant(mean, RatingDigits).InexactFloat64()
	return &avg
}

// RoundSignificant rounds d half away from zero to digits significant digits.
func RoundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() || digits <= 0 {
		return d
	}
	// d = coefficient * 10^exponent, so its leading digit sits at
	// 10^(NumDigits+Exponent-1)
	lead := int32(d.NumDigits()) + d.Exponent() - 1
	return d.Round(digits - 1 - lead)
}
