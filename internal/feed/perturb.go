package feed

import "github.com/shopspring/decimal"

// pricePrecision bounds the scale of a random-walk price so repeated multiplication
// does not grow the decimal without limit.
const pricePrecision = 12

var hundred = decimal.NewFromInt(100)

// Perturb applies a relative change to price and clamps the result at floor.
// change is a fraction: -0.1 means -10%.
func Perturb(price decimal.Decimal, change float64, floor decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromFloat(1 + change)
	next := price.Mul(factor).Round(pricePrecision)
	return decimal.Max(floor, next)
}

// ChangePercent converts a relative change into the percentage shown as priceChange24h.
func ChangePercent(change float64) decimal.Decimal {
	return decimal.NewFromFloat(change).Mul(hundred).Round(4)
}

// ScaleByRatio moves value by the same ratio the price moved. A zero old price leaves value as is.
func ScaleByRatio(value, oldPrice, newPrice decimal.Decimal) decimal.Decimal {
	if oldPrice.IsZero() {
		return value
	}
	return value.Mul(newPrice).Div(oldPrice).Round(2)
}
