package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/epeers/crisisboard/internal/feeds"
	"github.com/epeers/crisisboard/internal/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	indicatorPoliticalStability = "PV.EST"
	indicatorGDPGrowth          = "NY.GDP.MKTP.KD.ZG"

	// observations requested per watchlist country; the latest non-null wins
	indicatorLookback = 10
)

// DefaultStormKeywords is the allowlist of alert event types treated as storms
var DefaultStormKeywords = []string{"storm", "hurricane", "typhoon", "cyclone", "tornado", "blizzard", "wind"}

// CrisisFeed normalizes one external source into crisis events. Failures of
// the whole feed are reported as *FeedError; individual malformed records are
// dropped.
type CrisisFeed interface {
	Name() string
	FetchEvents(ctx context.Context, profile models.ThresholdProfile) ([]models.CrisisEvent, error)
}

// FeedError scopes a transport or parse failure to one crisis feed
type FeedError struct {
	Feed string
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("feed %s: %v", e.Feed, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }

func feedError(feed string, err error) *FeedError {
	var fe *FeedError
	if errors.As(err, &fe) {
		return fe
	}
	return &FeedError{Feed: feed, Err: err}
}

// SeismicFeed reads the USGS earthquake feed. Magnitude is used as severity
// as-is.
type SeismicFeed struct {
	fetcher      feeds.Fetcher
	url          string
	minMagnitude float64
}

// NewSeismicFeed creates a SeismicFeed. Features below minMagnitude do not qualify.
func NewSeismicFeed(fetcher feeds.Fetcher, url string, minMagnitude float64) *SeismicFeed {
	return &SeismicFeed{fetcher: fetcher, url: url, minMagnitude: minMagnitude}
}

func (f *SeismicFeed) Name() string { return "seismic" }

func (f *SeismicFeed) FetchEvents(ctx context.Context, _ models.ThresholdProfile) ([]models.CrisisEvent, error) {
	body, err := f.fetcher.Get(ctx, f.url)
	if err != nil {
		return nil, feedError(f.Name(), err)
	}
	quakes, err := feeds.ParseSeismic(body)
	if err != nil {
		return nil, feedError(f.Name(), err)
	}

	var events []models.CrisisEvent
	for _, q := range quakes {
		if q.Magnitude < f.minMagnitude {
			continue
		}
		title := q.Title
		if title == "" {
			title = fmt.Sprintf("M %.1f - %s", q.Magnitude, q.Place)
		}
		events = append(events, models.CrisisEvent{
			ID:         "usgs-" + q.ID,
			Title:      title,
			Region:     q.Place,
			OccurredAt: q.Time,
			DetailURL:  q.URL,
			SourceName: "USGS",
			Source:     models.SourceUSGS,
			Category:   models.CategorySeismic,
			Severity:   q.Magnitude,
		})
	}
	return events, nil
}

// StormFeed reads the NWS active alerts feed and keeps alerts whose event type
// contains one of its keywords. Severity follows the age of the alert.
type StormFeed struct {
	fetcher  feeds.Fetcher
	url      string
	keywords []string
	now      func() time.Time
}

// NewStormFeed creates a StormFeed. An empty keyword list uses DefaultStormKeywords.
func NewStormFeed(fetcher feeds.Fetcher, url string, keywords []string, now func() time.Time) *StormFeed {
	if len(keywords) == 0 {
		keywords = DefaultStormKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	if now == nil {
		now = time.Now
	}
	return &StormFeed{fetcher: fetcher, url: url, keywords: lowered, now: now}
}

func (f *StormFeed) Name() string { return "storm" }

func (f *StormFeed) FetchEvents(ctx context.Context, _ models.ThresholdProfile) ([]models.CrisisEvent, error) {
	body, err := f.fetcher.Get(ctx, f.url)
	if err != nil {
		return nil, feedError(f.Name(), err)
	}
	alerts, err := feeds.ParseStormAlerts(body)
	if err != nil {
		return nil, feedError(f.Name(), err)
	}

	now := f.now()
	var events []models.CrisisEvent
	for _, a := range alerts {
		if !f.matches(a.Event) {
			continue
		}
		title := a.Headline
		if title == "" {
			title = a.Event
		}
		events = append(events, models.CrisisEvent{
			ID:          "nws-" + a.ID,
			Title:       title,
			Summary:     a.Event,
			Region:      a.AreaDesc,
			OccurredAt:  a.Effective,
			PublishedAt: a.Sent,
			SourceName:  "National Weather Service",
			Source:      models.SourceNWS,
			Category:    models.CategoryStorm,
			Severity:    NewsRecencySeverity(now.Sub(a.Effective)),
		})
	}
	return events, nil
}

func (f *StormFeed) matches(event string) bool {
	event = strings.ToLower(event)
	for _, k := range f.keywords {
		if strings.Contains(event, k) {
			return true
		}
	}
	return false
}

// InstabilityFeed flags watchlist countries whose political stability estimate
// is at or below the profile's cutoff
type InstabilityFeed struct {
	fetcher   feeds.Fetcher
	baseURL   string
	watchlist []models.WatchlistEntry
}

// NewInstabilityFeed creates an InstabilityFeed over the World Bank API at baseURL
func NewInstabilityFeed(fetcher feeds.Fetcher, baseURL string, watchlist []models.WatchlistEntry) *InstabilityFeed {
	return &InstabilityFeed{fetcher: fetcher, baseURL: baseURL, watchlist: watchlist}
}

func (f *InstabilityFeed) Name() string { return "geopolitical" }

func (f *InstabilityFeed) FetchEvents(ctx context.Context, profile models.ThresholdProfile) ([]models.CrisisEvent, error) {
	readings, err := fetchWatchlistIndicator(ctx, f.fetcher, f.baseURL, indicatorPoliticalStability, f.watchlist)
	if err != nil {
		return nil, feedError(f.Name(), err)
	}

	var events []models.CrisisEvent
	for _, r := range readings {
		if r.value > profile.PoliticalInstabilityCutoff {
			continue
		}
		events = append(events, models.CrisisEvent{
			ID:         fmt.Sprintf("instability-%s-%d", r.entry.CountryCode, r.year),
			Title:      "Political instability in " + r.entry.Region,
			Summary:    fmt.Sprintf("Political stability estimate %.2f (%d)", r.value, r.year),
			Region:     r.entry.Region,
			OccurredAt: time.Date(r.year, time.January, 1, 0, 0, 0, 0, time.UTC),
			SourceName: "World Bank",
			Source:     models.SourceWorldBank,
			Category:   models.CategoryGeopolitical,
			Severity:   GovernanceSeverity(r.value),
		})
	}
	return events, nil
}

// FinancialStressFeed flags watchlist countries whose GDP growth is below the
// profile's recession cutoff
type FinancialStressFeed struct {
	fetcher   feeds.Fetcher
	baseURL   string
	watchlist []models.WatchlistEntry
}

// NewFinancialStressFeed creates a FinancialStressFeed over the World Bank API at baseURL
func NewFinancialStressFeed(fetcher feeds.Fetcher, baseURL string, watchlist []models.WatchlistEntry) *FinancialStressFeed {
	return &FinancialStressFeed{fetcher: fetcher, baseURL: baseURL, watchlist: watchlist}
}

func (f *FinancialStressFeed) Name() string { return "financial" }

func (f *FinancialStressFeed) FetchEvents(ctx context.Context, profile models.ThresholdProfile) ([]models.CrisisEvent, error) {
	readings, err := fetchWatchlistIndicator(ctx, f.fetcher, f.baseURL, indicatorGDPGrowth, f.watchlist)
	if err != nil {
		return nil, feedError(f.Name(), err)
	}

	var events []models.CrisisEvent
	for _, r := range readings {
		if r.value >= profile.RecessionGrowthCutoff {
			continue
		}
		events = append(events, models.CrisisEvent{
			ID:         fmt.Sprintf("recession-%s-%d", r.entry.CountryCode, r.year),
			Title:      "Recession risk in " + r.entry.Region,
			Summary:    fmt.Sprintf("GDP growth %.1f%% (%d)", r.value, r.year),
			Region:     r.entry.Region,
			OccurredAt: time.Date(r.year, time.January, 1, 0, 0, 0, 0, time.UTC),
			SourceName: "World Bank",
			Source:     models.SourceWorldBank,
			Category:   models.CategoryFinancial,
			Severity:   RecessionSeverity(r.value),
		})
	}
	return events, nil
}

type countryReading struct {
	entry models.WatchlistEntry
	year  int
	value float64
}

// fetchWatchlistIndicator fetches the latest value of indicator for every
// watchlist country, preserving watchlist order. Countries without a usable
// value are left out; a transport failure for any country fails the call.
func fetchWatchlistIndicator(ctx context.Context, fetcher feeds.Fetcher, baseURL, indicator string, watchlist []models.WatchlistEntry) ([]countryReading, error) {
	slots := make([]*countryReading, len(watchlist))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, entry := range watchlist {
		g.Go(func() error {
			body, err := fetcher.Get(gctx, feeds.IndicatorURL(baseURL, entry.CountryCode, indicator, indicatorLookback))
			if err != nil {
				return err
			}
			records, err := feeds.ParseIndicator(body)
			if err != nil {
				log.Debugf("%s: skipping %s: %v", indicator, entry.CountryCode, err)
				return nil
			}
			latest, ok := feeds.LatestIndicatorValue(records)
			if !ok {
				log.Debugf("%s: no value for %s", indicator, entry.CountryCode)
				return nil
			}
			slots[i] = &countryReading{entry: entry, year: latest.Year, value: *latest.Value}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	readings := make([]countryReading, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			readings = append(readings, *r)
		}
	}
	return readings, nil
}
