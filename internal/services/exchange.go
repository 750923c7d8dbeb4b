package services

import (
	"strings"

	"github.com/epeers/crisisboard/internal/models"
)

// Convert converts amount between currencies using rates quoted against
// rates.Base. It never fails: with no rates, or a rate missing for either side
// of the pair, the amount is returned unconverted.
func Convert(amount float64, from, to string, rates *models.ExchangeRates) float64 {
	if rates == nil {
		return amount
	}
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	base := strings.ToUpper(rates.Base)

	if from == to {
		return amount
	}

	switch {
	case from == base:
		mul, ok := rate(rates, to)
		if !ok {
			return amount
		}
		return amount * mul
	case to == base:
		div, ok := rate(rates, from)
		if !ok {
			return amount
		}
		return amount / div
	default:
		mulTo, okTo := rate(rates, to)
		mulFrom, okFrom := rate(rates, from)
		if !okTo || !okFrom {
			return amount
		}
		return amount * mulTo / mulFrom
	}
}

// rate looks up a usable multiplier; zero or negative values count as missing
func rate(rates *models.ExchangeRates, currency string) (float64, bool) {
	v, ok := rates.Rates[currency]
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// ConvertQuotes returns copies of quotes priced in currency. Quotes that
// cannot be converted keep their original price and currency; the second
// return value reports whether every quote converted.
func ConvertQuotes(quotes []models.MetalQuote, currency string, rates *models.ExchangeRates) ([]models.MetalQuote, bool) {
	currency = strings.ToUpper(currency)
	out := make([]models.MetalQuote, len(quotes))
	all := true
	for i, q := range quotes {
		out[i] = q
		if strings.EqualFold(q.Currency, currency) {
			continue
		}
		if !convertible(q.Currency, currency, rates) {
			all = false
			continue
		}
		out[i].Price = Convert(q.Price, q.Currency, currency, rates)
		out[i].Change = Convert(q.Change, q.Currency, currency, rates)
		out[i].Currency = currency
	}
	return out, all
}

func convertible(from, to string, rates *models.ExchangeRates) bool {
	if rates == nil {
		return false
	}
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	base := strings.ToUpper(rates.Base)
	_, okFrom := rate(rates, from)
	_, okTo := rate(rates, to)
	return (from == base || okFrom) && (to == base || okTo)
}
