package models

import "time"

// Metal identifies a precious metal
type Metal string

const (
	MetalGold   Metal = "gold"
	MetalSilver Metal = "silver"
)

// MetalQuote is the latest spot price of a metal in a quote currency
type MetalQuote struct {
	Metal         Metal     `json:"metal"`
	Currency      string    `json:"currency"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// ExchangeRates maps quote currencies to multipliers relative to Base.
// Base itself never appears in Rates; its multiplier is implicitly 1.0.
type ExchangeRates struct {
	Base      string             `json:"base"`
	Timestamp time.Time          `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
}
