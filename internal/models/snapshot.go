package models

import "time"

// DashboardSnapshot is one complete result of a dashboard refresh. It is never
// mutated after it has been produced.
type DashboardSnapshot struct {
	Metals        []MetalQuote   `json:"metals"`
	MacroOverview MacroOverview  `json:"macro_overview"`
	MacroSeries   []MacroSeries  `json:"macro_series"`
	CrisisEvents  []CrisisEvent  `json:"crisis_events"`
	Rates         *ExchangeRates `json:"rates,omitempty"`
	Warnings      []Warning      `json:"warnings,omitempty"`
	RefreshID     string         `json:"refresh_id,omitempty"`
	RefreshedAt   time.Time      `json:"refreshed_at"`
}
