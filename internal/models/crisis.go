package models

import "time"

// CrisisCategory classifies a crisis event. It is assigned once when a feed
// normalizes its payload.
type CrisisCategory string

const (
	CategoryGeopolitical CrisisCategory = "geopolitical"
	CategoryFinancial    CrisisCategory = "financial"
	CategorySeismic      CrisisCategory = "seismic"
	CategoryStorm        CrisisCategory = "storm"
)

// CrisisSource identifies the feed an event originated from
type CrisisSource string

const (
	SourceUSGS      CrisisSource = "usgs"
	SourceWorldBank CrisisSource = "worldbank"
	SourceNWS       CrisisSource = "nws"
)

// CrisisEvent is the normalized representation shared by every crisis feed.
// Severity is always derived by the feed, never supplied by a user.
type CrisisEvent struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary,omitempty"`
	Region      string         `json:"region"`
	OccurredAt  time.Time      `json:"occurred_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	DetailURL   string         `json:"detail_url,omitempty"`
	SourceName  string         `json:"source_name,omitempty"`
	Source      CrisisSource   `json:"source"`
	Category    CrisisCategory `json:"category"`
	Severity    float64        `json:"severity"`
}

// SeverityLabel buckets a severity score for display: below 4 is low,
// below 6 is elevated, anything else is high.
func SeverityLabel(score float64) string {
	switch {
	case score >= 6:
		return "high"
	case score >= 4:
		return "elevated"
	default:
		return "low"
	}
}

// WatchlistEntry is a monitored country
type WatchlistEntry struct {
	Region      string `json:"region" yaml:"region"`
	CountryCode string `json:"country_code" yaml:"country_code"`
}

// ThresholdProfile bundles the cutoffs that decide which raw signals qualify as
// crisis events. Profiles are values and are never partially overridden.
type ThresholdProfile struct {
	Name                       string  `json:"name" yaml:"name"`
	HighRiskSeverityScore      float64 `json:"high_risk_severity_score" yaml:"high_risk_severity_score"`
	PoliticalInstabilityCutoff float64 `json:"political_instability_cutoff" yaml:"political_instability_cutoff"`
	RecessionGrowthCutoff      float64 `json:"recession_growth_cutoff" yaml:"recession_growth_cutoff"`
}

// DefaultThresholdProfile is used when no engine file overrides the profiles
var DefaultThresholdProfile = ThresholdProfile{
	Name:                       "standard",
	HighRiskSeverityScore:      5.0,
	PoliticalInstabilityCutoff: -1.0,
	RecessionGrowthCutoff:      0.0,
}

// CrisisSummary is the headline view of a batch of crisis events
type CrisisSummary struct {
	Headline   string   `json:"headline"`
	Highlights []string `json:"highlights"`
}

// AggregationStatus describes how many crisis feeds settled successfully
type AggregationStatus string

const (
	AggregationComplete AggregationStatus = "complete"
	AggregationPartial  AggregationStatus = "partial"
	AggregationTotal    AggregationStatus = "total_failure"
)
