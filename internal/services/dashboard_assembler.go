package services

import (
	"maps"
	"slices"

	"github.com/epeers/crisisboard/internal/models"
)

// AssembleDashboard packages the refreshed sections into one snapshot. Every
// slice and map is copied so later changes by the caller cannot reach the
// snapshot.
func AssembleDashboard(
	metals []models.MetalQuote,
	overview models.MacroOverview,
	series []models.MacroSeries,
	crisis CrisisAggregation,
	rates *models.ExchangeRates,
) models.DashboardSnapshot {
	snap := models.DashboardSnapshot{
		Metals: slices.Clone(metals),
		MacroOverview: models.MacroOverview{
			Country:    overview.Country,
			Indicators: slices.Clone(overview.Indicators),
		},
		CrisisEvents: slices.Clone(crisis.Events),
	}

	for _, s := range series {
		s.Points = slices.Clone(s.Points)
		snap.MacroSeries = append(snap.MacroSeries, s)
	}

	if rates != nil {
		snap.Rates = &models.ExchangeRates{
			Base:      rates.Base,
			Timestamp: rates.Timestamp,
			Rates:     maps.Clone(rates.Rates),
		}
	}
	return snap
}
