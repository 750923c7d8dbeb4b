package models

// CyclePhase is one of the three Benner cycle phases
type CyclePhase string

const (
	PhasePanic CyclePhase = "panic"
	PhaseGood  CyclePhase = "good"
	PhaseHard  CyclePhase = "hard"
)

// CycleEntry is one year of a projected Benner cycle
type CycleEntry struct {
	Year        int        `json:"year"`
	Phase       CyclePhase `json:"phase"`
	Position    int        `json:"position"`
	PhaseLength int        `json:"phase_length"`
}

// YearRange is an inclusive range of years
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Contains reports whether year lies inside the range
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

// CycleParams holds the tuning constants of a Benner projection
type CycleParams struct {
	StartPanicYear int       `json:"start_panic_year" yaml:"start_panic_year"`
	Intervals      []int     `json:"intervals" yaml:"intervals"`
	Range          YearRange `json:"range" yaml:"range"`
	GoodSpan       int       `json:"good_span" yaml:"good_span"`
	HardSpan       int       `json:"hard_span" yaml:"hard_span"`
}
