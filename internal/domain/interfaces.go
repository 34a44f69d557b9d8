package domain

// PriceFeed defines the interface for a source of batched price updates.
// The simulator in internal/feed is the only implementation; a live socket feed would be another.
type PriceFeed interface {
	Start(tokens []Token)
	Stop()
	Subscribe(fn func(Batch)) (unsubscribe func())
	UpdateTokens(tokens []Token)
	ReplaceTokens(tokens []Token)
	Running() bool
}

// TokenCatalog defines where seed records come from.
type TokenCatalog interface {
	LoadSeed() (Seed, error)
}
