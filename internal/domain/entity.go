package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenEntity is the catalog row a Token is seeded from.
type TokenEntity struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Position int    `gorm:"index" json:"position"` // insertion order within the column
	Name     string `json:"name"`
	Symbol   string `gorm:"index" json:"symbol"`
	Address  string `json:"address"`
	ImageURL string `json:"image_url"`

	Price          decimal.Decimal     `gorm:"type:text" json:"price"`
	PriceChange24h decimal.Decimal     `gorm:"type:text" json:"price_change_24h"`
	MarketCap      decimal.Decimal     `gorm:"type:text" json:"market_cap"`
	Volume         decimal.Decimal     `gorm:"type:text" json:"volume"`
	Fee            decimal.Decimal     `gorm:"type:text" json:"fee"`
	Bonding        decimal.NullDecimal `gorm:"type:text" json:"bonding"` // final-stretch only
	Holders        int64               `json:"holders"`
	Transactions   int64               `json:"transactions"`

	Age     string       `json:"age"`
	Status  TokenStatus  `gorm:"index" json:"status"`
	Metrics TokenMetrics `gorm:"embedded;embeddedPrefix:metric_" json:"metrics"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the catalog table name.
func (TokenEntity) TableName() string {
	return "tokens"
}

// NewTokenEntity converts a record into its catalog row.
func NewTokenEntity(t Token, position int) *TokenEntity {
	return &TokenEntity{
		ID:             t.ID,
		Position:       position,
		Name:           t.Name,
		Symbol:         t.Symbol,
		Address:        t.Address,
		ImageURL:       t.ImageURL,
		Price:          t.Price,
		PriceChange24h: t.PriceChange24h,
		MarketCap:      t.MarketCap,
		Volume:         t.Volume,
		Fee:            t.Fee,
		Bonding:        nullDecimal(t.Bonding),
		Holders:        t.Holders,
		Transactions:   t.Transactions,
		Age:            t.Age,
		Status:         t.Status,
		Metrics:        t.Metrics,
	}
}

// Token converts the row back into a dashboard record.
func (e *TokenEntity) Token() Token {
	return Token{
		ID:             e.ID,
		Name:           e.Name,
		Symbol:         e.Symbol,
		Address:        e.Address,
		ImageURL:       e.ImageURL,
		Price:          e.Price,
		PriceChange24h: e.PriceChange24h,
		MarketCap:      e.MarketCap,
		Volume:         e.Volume,
		Fee:            e.Fee,
		Bonding:        decimalPtr(e.Bonding),
		Holders:        e.Holders,
		Transactions:   e.Transactions,
		Age:            e.Age,
		Status:         e.Status,
		Metrics:        e.Metrics,
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
