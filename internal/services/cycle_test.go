package services

import (
	"math"
	"testing"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bennerParams() models.CycleParams {
	return models.CycleParams{
		StartPanicYear: 1700,
		Intervals:      []int{18, 20, 16},
		Range:          models.YearRange{Start: 1780, End: 2150},
		GoodSpan:       7,
		HardSpan:       11,
	}
}

func TestGenerateCycle_KnownPanicYear(t *testing.T) {
	entries, err := GenerateCycle(bennerParams())
	require.NoError(t, err)

	focus := FocusEntry(entries, 1792)
	require.NotNil(t, focus)
	assert.Equal(t, models.CycleEntry{Year: 1792, Phase: models.PhasePanic, Position: 1, PhaseLength: 1}, *focus)
}

func TestGenerateCycle_Invariants(t *testing.T) {
	params := bennerParams()
	entries, err := GenerateCycle(params)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	assert.Equal(t, params.Range.Start, entries[0].Year)
	assert.Equal(t, params.Range.End, entries[len(entries)-1].Year)

	for i, e := range entries {
		assert.True(t, params.Range.Contains(e.Year), "year %d outside range", e.Year)
		if i > 0 {
			assert.Greater(t, e.Year, entries[i-1].Year, "entries must be strictly ascending")
		}
		if e.Phase == models.PhasePanic {
			assert.Equal(t, 1, e.Position)
			assert.Equal(t, 1, e.PhaseLength)
		}
		assert.GreaterOrEqual(t, e.Position, 1)
		assert.LessOrEqual(t, e.Position, e.PhaseLength)
	}
}

func TestGenerateCycle_PhaseSplit(t *testing.T) {
	// panics at 1700 and 1718: 7 good years then 10 hard years
	entries, err := GenerateCycle(models.CycleParams{
		StartPanicYear: 1700,
		Intervals:      []int{18},
		Range:          models.YearRange{Start: 1700, End: 1718},
		GoodSpan:       7,
		HardSpan:       11,
	})
	require.NoError(t, err)
	require.Len(t, entries, 19)

	assert.Equal(t, models.PhasePanic, entries[0].Phase)
	assert.Equal(t, models.CycleEntry{Year: 1701, Phase: models.PhaseGood, Position: 1, PhaseLength: 7}, entries[1])
	assert.Equal(t, models.CycleEntry{Year: 1707, Phase: models.PhaseGood, Position: 7, PhaseLength: 7}, entries[7])
	assert.Equal(t, models.CycleEntry{Year: 1708, Phase: models.PhaseHard, Position: 1, PhaseLength: 10}, entries[8])
	assert.Equal(t, models.CycleEntry{Year: 1717, Phase: models.PhaseHard, Position: 10, PhaseLength: 10}, entries[17])
	assert.Equal(t, models.CycleEntry{Year: 1718, Phase: models.PhasePanic, Position: 1, PhaseLength: 1}, entries[18])
}

func TestGenerateCycle_Deterministic(t *testing.T) {
	a, err := GenerateCycle(bennerParams())
	require.NoError(t, err)
	b, err := GenerateCycle(bennerParams())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateCycle_InvalidParams(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *models.CycleParams)
	}{
		{name: "empty intervals", mutate: func(p *models.CycleParams) { p.Intervals = nil }},
		{name: "zero interval", mutate: func(p *models.CycleParams) { p.Intervals = []int{18, 0} }},
		{name: "negative interval", mutate: func(p *models.CycleParams) { p.Intervals = []int{-4} }},
		{name: "negative good span", mutate: func(p *models.CycleParams) { p.GoodSpan = -1 }},
		{name: "inverted range", mutate: func(p *models.CycleParams) { p.Range = models.YearRange{Start: 2000, End: 1990} }},
		{name: "range too long", mutate: func(p *models.CycleParams) { p.Range = models.YearRange{Start: 1780, End: 1780 + 1000} }},
		{name: "range far after panic year", mutate: func(p *models.CycleParams) { p.Range = models.YearRange{Start: 1_000_000, End: 1_000_010} }},
		{name: "range end overflows horizon", mutate: func(p *models.CycleParams) {
			p.StartPanicYear = math.MaxInt - 100
			p.Range = models.YearRange{Start: math.MaxInt - 10, End: math.MaxInt - 5}
		}},
		{name: "range span wraps around", mutate: func(p *models.CycleParams) { p.Range = models.YearRange{Start: math.MinInt, End: math.MaxInt} }},
		{name: "oversized interval", mutate: func(p *models.CycleParams) { p.Intervals = []int{18, 5000} }},
		{name: "oversized hard span", mutate: func(p *models.CycleParams) { p.HardSpan = 5000 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			params := bennerParams()
			tc.mutate(&params)
			_, err := GenerateCycle(params)
			assert.ErrorIs(t, err, ErrInvalidCycleParams)
		})
	}
}

func TestFocusEntry(t *testing.T) {
	entries := []models.CycleEntry{
		{Year: 2000, Phase: models.PhaseGood},
		{Year: 2002, Phase: models.PhaseHard},
	}

	assert.Equal(t, 2002, FocusEntry(entries, 2002).Year)
	assert.Equal(t, 2002, FocusEntry(entries, 2050).Year)
	assert.Equal(t, 2000, FocusEntry(entries, 1900).Year)
	// equidistant resolves to the earlier year
	assert.Equal(t, 2000, FocusEntry(entries, 2001).Year)
	assert.Nil(t, FocusEntry(nil, 2001))

	// the result is a copy
	FocusEntry(entries, 2000).Phase = models.PhasePanic
	assert.Equal(t, models.PhaseGood, entries[0].Phase)
}
