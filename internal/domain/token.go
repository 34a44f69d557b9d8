package domain

import "github.com/shopspring/decimal"

// TokenStatus is the lifecycle category that decides which column a token lives in.
type TokenStatus string

const (
	StatusNew          TokenStatus = "new"
	StatusFinalStretch TokenStatus = "final-stretch"
	StatusMigrated     TokenStatus = "migrated"
)

// Statuses lists every column in display order.
var Statuses = []TokenStatus{StatusNew, StatusFinalStretch, StatusMigrated}

// Valid reports whether s is one of the known columns.
func (s TokenStatus) Valid() bool {
	switch s {
	case StatusNew, StatusFinalStretch, StatusMigrated:
		return true
	default:
		return false
	}
}

// Title returns the column heading shown by presentation layers.
func (s TokenStatus) Title() string {
	switch s {
	case StatusNew:
		return "New Pairs"
	case StatusFinalStretch:
		return "Final Stretch"
	case StatusMigrated:
		return "Migrated"
	default:
		return string(s)
	}
}

// ParseStatus converts user input into a TokenStatus.
func ParseStatus(s string) (TokenStatus, error) {
	status := TokenStatus(s)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// TokenMetrics holds display-only percentages. The core never sorts on them.
type TokenMetrics struct {
	HoldersPercent     float64 `json:"holders_percent" yaml:"holders_percent"`
	LiquidityPercent   float64 `json:"liquidity_percent" yaml:"liquidity_percent"`
	TimePercent        float64 `json:"time_percent" yaml:"time_percent"`
	TargetPercent      float64 `json:"target_percent" yaml:"target_percent"`
	GearPercent        float64 `json:"gear_percent" yaml:"gear_percent"`
	HoldersGearPercent float64 `json:"holders_gear_percent" yaml:"holders_gear_percent"`
}

// Token is a single dashboard row. Records are values: a mutation replaces the whole record.
type Token struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Address  string `json:"address" yaml:"address"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	Price          decimal.Decimal `json:"price" yaml:"price"`
	PriceChange24h decimal.Decimal `json:"price_change_24h" yaml:"price_change_24h"`
	MarketCap      decimal.Decimal `json:"market_cap" yaml:"market_cap"`
	Volume         decimal.Decimal `json:"volume" yaml:"volume"`
	Fee            decimal.Decimal `json:"fee" yaml:"fee"`
	Holders        int64           `json:"holders" yaml:"holders"`
	Transactions   int64           `json:"transactions" yaml:"transactions"`

	Age     string           `json:"age" yaml:"age"` // e.g. "4m", "17s", "1y"
	Status  TokenStatus      `json:"status" yaml:"status"`
	Bonding *decimal.Decimal `json:"bonding,omitempty" yaml:"bonding,omitempty"` // final-stretch only
	Metrics TokenMetrics     `json:"metrics" yaml:"metrics"`
}

// Equal reports whether two records carry identical values.
func (t Token) Equal(o Token) bool {
	if t.ID != o.ID || t.Name != o.Name || t.Symbol != o.Symbol || t.Address != o.Address ||
		t.ImageURL != o.ImageURL || t.Age != o.Age || t.Status != o.Status ||
		t.Holders != o.Holders || t.Transactions != o.Transactions || t.Metrics != o.Metrics {
		return false
	}
	if !t.Price.Equal(o.Price) || !t.PriceChange24h.Equal(o.PriceChange24h) ||
		!t.MarketCap.Equal(o.MarketCap) || !t.Volume.Equal(o.Volume) || !t.Fee.Equal(o.Fee) {
		return false
	}
	if (t.Bonding == nil) != (o.Bonding == nil) {
		return false
	}
	return t.Bonding == nil || t.Bonding.Equal(*o.Bonding)
}

// ChangeDirection returns "positive", "negative", or "neutral"
func (t Token) ChangeDirection() string {
	if t.PriceChange24h.IsPositive() {
		return "positive"
	}
	if t.PriceChange24h.IsNegative() {
		return "negative"
	}
	return "neutral"
}

// Seed is the initial column content handed to the store at startup or reset.
type Seed map[TokenStatus][]Token

// Len returns the total number of tokens across all columns.
func (s Seed) Len() int {
	n := 0
	for _, tokens := range s {
		n += len(tokens)
	}
	return n
}
