package models

// IndicatorKind enumerates the macro indicators shown on the dashboard
type IndicatorKind string

const (
	IndicatorInflation IndicatorKind = "inflation"
	IndicatorGrowth    IndicatorKind = "growth"
	IndicatorDefense   IndicatorKind = "defense"
)

// IndicatorKinds lists every kind in display order
var IndicatorKinds = []IndicatorKind{IndicatorInflation, IndicatorGrowth, IndicatorDefense}

// Label returns the display name of the indicator
func (k IndicatorKind) Label() string {
	switch k {
	case IndicatorInflation:
		return "Inflation"
	case IndicatorGrowth:
		return "Growth"
	case IndicatorDefense:
		return "Defense spending"
	default:
		return string(k)
	}
}

// MacroPoint is a single yearly observation
type MacroPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// MacroSeries is a chronologically ordered yearly series for one indicator.
// Years are unique.
type MacroSeries struct {
	Kind   IndicatorKind `json:"kind"`
	Unit   string        `json:"unit"`
	Points []MacroPoint  `json:"points"`
}

// MacroIndicator holds the two most recent values of a series
type MacroIndicator struct {
	Kind     IndicatorKind `json:"kind"`
	Latest   float64       `json:"latest"`
	Previous *float64      `json:"previous,omitempty"`
	Year     int           `json:"year"`
	Unit     string        `json:"unit"`
}

// MacroOverview is the headline table of the macro section
type MacroOverview struct {
	Country    string           `json:"country"`
	Indicators []MacroIndicator `json:"indicators"`
}

// MacroChartAnnotation calls out the largest recent move across macro series
type MacroChartAnnotation struct {
	Kind      IndicatorKind `json:"kind"`
	FocusYear int           `json:"focus_year"`
	Delta     float64       `json:"delta"`
	Message   string        `json:"message"`
}
