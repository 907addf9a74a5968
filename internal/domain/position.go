// Package domain defines the core types, collaborator interfaces, and
// sentinel errors shared across the stock tracker.
package domain

import "strings"

// Position is a user's current holding of one symbol at cost basis.
// Quantity is always strictly positive; a position whose quantity reaches
// zero is deleted rather than persisted.
type Position struct {
	Symbol   string  `json:"symbol"`
	Quantity int     `json:"quantity"`
	AvgCost  float64 `json:"averageCost"`
}

// Trade is a single buy or sell instruction. It is ephemeral and never
// persisted as-is. For buys, Price is the execution price of the new lot.
// For sells, Price is informational only; the engine reduces against the
// stored average cost.
type Trade struct {
	Symbol   string  `json:"symbol"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Holding is one row of a materialized portfolio snapshot: the persisted
// cost-basis data annotated with a live market price. CurrentPrice is 0
// when the quote source was unavailable for the symbol.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Quantity     int     `json:"quantity"`
	AvgCost      float64 `json:"averageCost"`
	CurrentPrice float64 `json:"currentPrice"`
}

// NormalizeSymbol canonicalizes a ticker symbol for use as a store key.
// All store operations are keyed by the normalized form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
