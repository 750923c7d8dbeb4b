package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/crisisboard/internal/feeds"
	"github.com/epeers/crisisboard/internal/models"
)

// MarketService retrieves metal spot prices and reference exchange rates
type MarketService struct {
	fetcher       feeds.Fetcher
	pricesURL     string
	ratesURL      string
	quoteCurrency string
}

// NewMarketService creates a new MarketService
func NewMarketService(fetcher feeds.Fetcher, pricesURL, ratesURL, quoteCurrency string) *MarketService {
	return &MarketService{
		fetcher:       fetcher,
		pricesURL:     pricesURL,
		ratesURL:      ratesURL,
		quoteCurrency: quoteCurrency,
	}
}

// FetchMetals returns gold and silver quotes in the service's quote currency
func (s *MarketService) FetchMetals(ctx context.Context) ([]models.MetalQuote, error) {
	defer TrackTime("FetchMetals", time.Now())

	body, err := s.fetcher.Get(ctx, s.pricesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metal prices: %w", err)
	}
	prices, err := feeds.ParseMetalPrices(body)
	if err != nil {
		return nil, err
	}
	quotes := prices.Quotes(s.quoteCurrency)
	if quotes == nil {
		return nil, &feeds.ParseError{Feed: "prices", Err: fmt.Errorf("no %s row in price feed", s.quoteCurrency)}
	}
	return quotes, nil
}

// FetchRates returns the latest reference exchange rates
func (s *MarketService) FetchRates(ctx context.Context) (*models.ExchangeRates, error) {
	defer TrackTime("FetchRates", time.Now())

	body, err := s.fetcher.Get(ctx, s.ratesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	return feeds.ParseExchangeRates(body)
}
