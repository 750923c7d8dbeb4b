package services

import (
	"fmt"
	"math"

	"github.com/epeers/crisisboard/internal/models"
)

// AnnotateMacro picks the series with the largest absolute move between its
// last two points and describes it. Ties keep the earlier series. It returns
// nil when no series has two points.
func AnnotateMacro(series []models.MacroSeries) *models.MacroChartAnnotation {
	var best *models.MacroChartAnnotation
	for _, s := range series {
		n := len(s.Points)
		if n < 2 {
			continue
		}
		last, prev := s.Points[n-1], s.Points[n-2]
		delta := last.Value - prev.Value
		if best != nil && math.Abs(delta) <= math.Abs(best.Delta) {
			continue
		}

		direction := "increased"
		if delta < 0 {
			direction = "decreased"
		}
		best = &models.MacroChartAnnotation{
			Kind:      s.Kind,
			FocusYear: last.Year,
			Delta:     delta,
			Message:   fmt.Sprintf("%s %s by %.1f%s since %d.", s.Kind.Label(), direction, math.Abs(delta), s.Unit, prev.Year),
		}
	}
	return best
}
