package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceUpdate is one market delta for a single token.
// MarketCap and Volume are optional; nil means "unchanged".
type PriceUpdate struct {
	TokenID        string           `json:"token_id"`
	Price          decimal.Decimal  `json:"price"`
	PriceChange24h decimal.Decimal  `json:"price_change_24h"`
	MarketCap      *decimal.Decimal `json:"market_cap,omitempty"`
	Volume         *decimal.Decimal `json:"volume,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// ApplyTo returns a copy of t carrying the update's fields. Identity and status are untouched.
func (u PriceUpdate) ApplyTo(t Token) Token {
	t.Price = u.Price
	t.PriceChange24h = u.PriceChange24h
	if u.MarketCap != nil {
		t.MarketCap = *u.MarketCap
	}
	if u.Volume != nil {
		t.Volume = *u.Volume
	}
	return t
}

// Batch groups every update produced by one feed tick. A token appears at most once.
type Batch struct {
	Seq     uint64        `json:"seq"`
	At      time.Time     `json:"at"`
	Updates []PriceUpdate `json:"updates"`
}

// Len returns the number of updates in the batch.
func (b Batch) Len() int {
	return len(b.Updates)
}
