package services

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/epeers/crisisboard/internal/models"
)

// ErrInvalidCycleParams is returned for projections that cannot terminate or
// cannot produce a meaningful timeline
var ErrInvalidCycleParams = errors.New("invalid cycle parameters")

const (
	// maxCycleYears bounds the projected range, intervals and phase spans
	maxCycleYears = 1000
	// maxCycleHorizon bounds the distance from the first panic year to the end of the range
	maxCycleHorizon = 10000
)

// GenerateCycle projects a Benner cycle over params.Range. Panic years start at
// params.StartPanicYear and advance by params.Intervals, reused cyclically. The
// years between two panics are split into a good phase of at most GoodSpan
// years followed by a hard phase holding the rest. Output is ascending by year,
// one entry per year, and depends on nothing but params.
func GenerateCycle(params models.CycleParams) ([]models.CycleEntry, error) {
	if err := validateCycleParams(params); err != nil {
		return nil, err
	}

	maxInterval := 0
	for _, iv := range params.Intervals {
		if iv > maxInterval {
			maxInterval = iv
		}
	}
	horizon := params.Range.End + params.HardSpan + maxInterval

	panics := []int{params.StartPanicYear}
	for i := 0; panics[len(panics)-1] <= horizon; i++ {
		next := panics[len(panics)-1] + params.Intervals[i%len(params.Intervals)]
		panics = append(panics, next)
	}

	var entries []models.CycleEntry
	emit := func(year int, phase models.CyclePhase, position, length int) {
		if params.Range.Contains(year) {
			entries = append(entries, models.CycleEntry{Year: year, Phase: phase, Position: position, PhaseLength: length})
		}
	}

	for i := 0; i+1 < len(panics); i++ {
		p, next := panics[i], panics[i+1]
		emit(p, models.PhasePanic, 1, 1)

		available := min(next, params.Range.End+1) - p - 1
		if available <= 0 {
			continue
		}
		good := min(params.GoodSpan, available)
		hard := available - good

		for pos := 1; pos <= good; pos++ {
			emit(p+pos, models.PhaseGood, pos, good)
		}
		for pos := 1; pos <= hard; pos++ {
			emit(p+good+pos, models.PhaseHard, pos, hard)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Year < entries[j].Year })
	return entries, nil
}

func validateCycleParams(params models.CycleParams) error {
	if len(params.Intervals) == 0 {
		return fmt.Errorf("%w: interval sequence is empty", ErrInvalidCycleParams)
	}
	for _, iv := range params.Intervals {
		if iv <= 0 {
			return fmt.Errorf("%w: interval %d is not positive", ErrInvalidCycleParams, iv)
		}
	}
	if params.GoodSpan < 0 || params.HardSpan < 0 {
		return fmt.Errorf("%w: phase spans must not be negative", ErrInvalidCycleParams)
	}
	if params.Range.End < params.Range.Start {
		return fmt.Errorf("%w: range %d..%d is inverted", ErrInvalidCycleParams, params.Range.Start, params.Range.End)
	}

	// differences are checked for wraparound as well as size
	if span := params.Range.End - params.Range.Start; span < 0 || span >= maxCycleYears {
		return fmt.Errorf("%w: range %d..%d is longer than %d years", ErrInvalidCycleParams, params.Range.Start, params.Range.End, maxCycleYears)
	}
	if params.StartPanicYear < params.Range.End {
		if d := params.Range.End - params.StartPanicYear; d < 0 || d > maxCycleHorizon {
			return fmt.Errorf("%w: range ends more than %d years after panic year %d", ErrInvalidCycleParams, maxCycleHorizon, params.StartPanicYear)
		}
	}
	maxInterval := 0
	for _, iv := range params.Intervals {
		if iv > maxCycleYears {
			return fmt.Errorf("%w: interval %d exceeds %d years", ErrInvalidCycleParams, iv, maxCycleYears)
		}
		maxInterval = max(maxInterval, iv)
	}
	if params.GoodSpan > maxCycleYears || params.HardSpan > maxCycleYears {
		return fmt.Errorf("%w: phase spans must not exceed %d years", ErrInvalidCycleParams, maxCycleYears)
	}
	if params.Range.End > math.MaxInt-params.HardSpan-2*maxInterval {
		return fmt.Errorf("%w: range end %d is too large", ErrInvalidCycleParams, params.Range.End)
	}
	return nil
}

// FocusEntry returns the entry for year, or the nearest one when year is
// outside the projection. Equal distances resolve to the earlier year.
func FocusEntry(entries []models.CycleEntry, year int) *models.CycleEntry {
	var best *models.CycleEntry
	bestDist := 0
	for i := range entries {
		d := entries[i].Year - year
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDist {
			best = &entries[i]
			bestDist = d
		}
	}
	if best == nil {
		return nil
	}
	e := *best
	return &e
}
