package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/epeers/crisisboard/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrAggregationTotalFailure is reported when every configured crisis feed failed
var ErrAggregationTotalFailure = errors.New("all crisis feeds failed")

// CrisisAggregation is the settled result of one fan-out across crisis feeds
type CrisisAggregation struct {
	Events   []models.CrisisEvent
	Failures []*FeedError
	Feeds    int
}

// Status reports whether all, some or none of the feeds succeeded
func (a CrisisAggregation) Status() models.AggregationStatus {
	switch {
	case len(a.Failures) == 0:
		return models.AggregationComplete
	case len(a.Failures) >= a.Feeds:
		return models.AggregationTotal
	default:
		return models.AggregationPartial
	}
}

// Err returns ErrAggregationTotalFailure, joined with every feed error, when no
// feed succeeded. Partial failures are not errors.
func (a CrisisAggregation) Err() error {
	if a.Status() != models.AggregationTotal {
		return nil
	}
	errs := make([]error, len(a.Failures))
	for i, f := range a.Failures {
		errs[i] = f
	}
	return fmt.Errorf("%w: %w", ErrAggregationTotalFailure, errors.Join(errs...))
}

// Warnings describes each failed feed for the caller
func (a CrisisAggregation) Warnings() []models.Warning {
	var warnings []models.Warning
	for _, f := range a.Failures {
		warnings = append(warnings, models.Warning{
			Code:    models.WarnCrisisFeedFailed,
			Message: fmt.Sprintf("crisis feed %s unavailable: %v", f.Feed, f.Err),
		})
	}
	return warnings
}

// AggregateCrisis runs every feed concurrently and waits for all of them. The
// merged events keep feed registration order, then each feed's own order, and
// the first event seen for an ID wins. A failing feed never affects its
// siblings; its error is recorded in Failures.
func AggregateCrisis(ctx context.Context, crisisFeeds []CrisisFeed, profile models.ThresholdProfile) CrisisAggregation {
	results := make([][]models.CrisisEvent, len(crisisFeeds))
	errs := make([]error, len(crisisFeeds))

	var g errgroup.Group
	for i, feed := range crisisFeeds {
		g.Go(func() error {
			events, err := feed.FetchEvents(ctx, profile)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = events
			return nil
		})
	}
	_ = g.Wait()

	agg := CrisisAggregation{Feeds: len(crisisFeeds)}
	seen := make(map[string]bool)
	for i, feed := range crisisFeeds {
		if errs[i] != nil {
			fe := feedError(feed.Name(), errs[i])
			log.Warnf("AggregateCrisis: %v", fe)
			agg.Failures = append(agg.Failures, fe)
			continue
		}
		for _, e := range results[i] {
			if seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			agg.Events = append(agg.Events, e)
		}
	}
	return agg
}
