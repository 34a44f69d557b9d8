package view

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
	billion  = decimal.NewFromInt(1_000_000_000)
)

// FormatCurrency renders a dollar amount with K/M/B suffixes, e.g. "$12.35K".
func FormatCurrency(value decimal.Decimal) string {
	return "$" + compact(value, value.StringFixed(2))
}

// FormatNumber renders a count with K/M/B suffixes; small counts are printed as is.
func FormatNumber(value int64) string {
	return compact(decimal.NewFromInt(value), strconv.FormatInt(value, 10))
}

// FormatCount renders a count with thousands separators, e.g. "1,234,567".
func FormatCount(value int64) string {
	return humanize.Comma(value)
}

// FormatPrice renders a unit price. Sub-cent prices keep their significant digits.
func FormatPrice(price decimal.Decimal) string {
	if price.Abs().LessThan(decimal.New(1, -2)) {
		return "$" + price.String()
	}
	return "$" + price.StringFixed(4)
}

// FormatPercent renders a signed percentage with two decimals, e.g. "+7.34%".
func FormatPercent(value decimal.Decimal) string {
	s := value.StringFixed(2)
	if value.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// TruncateAddress keeps the first start and last end characters, e.g. "So11...1112".
func TruncateAddress(address string, start, end int) string {
	if start < 0 || end < 0 || len(address) <= start+end {
		return address
	}
	return address[:start] + "..." + address[len(address)-end:]
}

func compact(value decimal.Decimal, small string) string {
	switch {
	case value.GreaterThanOrEqual(billion):
		return value.Div(billion).StringFixed(2) + "B"
	case value.GreaterThanOrEqual(million):
		return value.Div(million).StringFixed(2) + "M"
	case value.GreaterThanOrEqual(thousand):
		return value.Div(thousand).StringFixed(2) + "K"
	default:
		return small
	}
}
