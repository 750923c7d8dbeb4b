package services

import (
	"testing"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eurRates() *models.ExchangeRates {
	return &models.ExchangeRates{
		Base:  "EUR",
		Rates: map[string]float64{"USD": 1.1, "GBP": 0.85, "JPY": 0},
	}
}

func TestConvert(t *testing.T) {
	rates := eurRates()

	testCases := []struct {
		name     string
		amount   float64
		from, to string
		rates    *models.ExchangeRates
		expected float64
	}{
		{name: "quote to base", amount: 110, from: "USD", to: "EUR", rates: rates, expected: 100},
		{name: "base to quote", amount: 50, from: "EUR", to: "USD", rates: rates, expected: 55},
		{name: "lower case codes", amount: 50, from: "eur", to: "usd", rates: rates, expected: 55},
		{name: "cross pair", amount: 110, from: "USD", to: "GBP", rates: rates, expected: 85},
		{name: "same currency", amount: 42, from: "USD", to: "USD", rates: rates, expected: 42},
		{name: "no rates", amount: 80, from: "USD", to: "EUR", rates: nil, expected: 80},
		{name: "unknown target", amount: 80, from: "EUR", to: "CHF", rates: rates, expected: 80},
		{name: "unknown source", amount: 80, from: "CHF", to: "EUR", rates: rates, expected: 80},
		{name: "zero rate counts as missing", amount: 80, from: "EUR", to: "JPY", rates: rates, expected: 80},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Convert(tc.amount, tc.from, tc.to, tc.rates), 0.001)
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	rates := eurRates()
	back := Convert(Convert(123.45, "USD", "GBP", rates), "GBP", "USD", rates)
	assert.InDelta(t, 123.45, back, 1e-9)
}

func TestConvertQuotes(t *testing.T) {
	quotes := []models.MetalQuote{
		{Metal: models.MetalGold, Currency: "USD", Price: 2200, Change: 11},
		{Metal: models.MetalSilver, Currency: "USD", Price: 27.5, Change: -1.1},
	}

	converted, ok := ConvertQuotes(quotes, "eur", eurRates())
	require.True(t, ok)
	require.Len(t, converted, 2)
	assert.Equal(t, "EUR", converted[0].Currency)
	assert.InDelta(t, 2000, converted[0].Price, 0.001)
	assert.InDelta(t, 10, converted[0].Change, 0.001)
	assert.InDelta(t, 25, converted[1].Price, 0.001)

	// inputs are untouched
	assert.Equal(t, "USD", quotes[0].Currency)
	assert.Equal(t, 2200.0, quotes[0].Price)
}

func TestConvertQuotes_MissingRate(t *testing.T) {
	quotes := []models.MetalQuote{{Metal: models.MetalGold, Currency: "USD", Price: 2200}}

	converted, ok := ConvertQuotes(quotes, "CHF", eurRates())
	assert.False(t, ok)
	assert.Equal(t, quotes, converted)

	converted, ok = ConvertQuotes(quotes, "EUR", nil)
	assert.False(t, ok)
	assert.Equal(t, quotes, converted)
}
