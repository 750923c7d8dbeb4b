package services

import (
	"fmt"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/epeers/crisisboard/internal/util"
)

// SummarizeCrisis reduces a batch of events to a headline and up to three
// highlights: the busiest region, the busiest category and the most recent
// event. Ties go to whichever was encountered first in events. It returns nil
// for an empty batch.
func SummarizeCrisis(events []models.CrisisEvent, profile models.ThresholdProfile) *models.CrisisSummary {
	if len(events) == 0 {
		return nil
	}

	highRisk := 0
	for _, e := range events {
		if e.Severity >= profile.HighRiskSeverityScore {
			highRisk++
		}
	}

	summary := &models.CrisisSummary{Headline: crisisHeadline(highRisk), Highlights: []string{}}

	if region, n, ok := mostFrequent(events, func(e models.CrisisEvent) string { return e.Region }); ok {
		summary.Highlights = append(summary.Highlights, fmt.Sprintf("%dx events in %s", n, region))
	}
	if category, n, ok := mostFrequent(events, func(e models.CrisisEvent) string { return string(e.Category) }); ok {
		summary.Highlights = append(summary.Highlights, fmt.Sprintf("%dx %s events", n, category))
	}

	latest := -1
	for i, e := range events {
		if e.OccurredAt.IsZero() {
			continue
		}
		if latest < 0 || e.OccurredAt.After(events[latest].OccurredAt) {
			latest = i
		}
	}
	if latest >= 0 {
		e := events[latest]
		summary.Highlights = append(summary.Highlights, fmt.Sprintf("Last: %s at %s", e.Title, util.FormatTimestamp(e.OccurredAt, "UTC")))
	}

	return summary
}

func crisisHeadline(highRisk int) string {
	switch highRisk {
	case 0:
		return "No high-risk events detected"
	case 1:
		return "1 high-risk event"
	default:
		return fmt.Sprintf("%d high-risk events", highRisk)
	}
}

// mostFrequent counts non-empty keys and returns the most common one. Ties
// resolve to the key seen first.
func mostFrequent(events []models.CrisisEvent, key func(models.CrisisEvent) string) (string, int, bool) {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		k := key(e)
		if k == "" {
			continue
		}
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}

	best, bestCount := "", 0
	for _, k := range order {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount, bestCount > 0
}
