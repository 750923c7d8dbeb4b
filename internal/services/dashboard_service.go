package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/epeers/crisisboard/internal/cache"
	"github.com/epeers/crisisboard/internal/metrics"
	"github.com/epeers/crisisboard/internal/models"
	"github.com/epeers/crisisboard/internal/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrRefreshSuperseded is returned by a refresh whose result was discarded
	// because a newer refresh started or landed first
	ErrRefreshSuperseded = errors.New("refresh superseded by a newer refresh")
	// ErrNoSnapshot is returned when no snapshot has been produced or restored yet
	ErrNoSnapshot = errors.New("no dashboard snapshot available")
)

// SnapshotStore persists snapshots for offline display
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.DashboardSnapshot) error
	LoadLatest(ctx context.Context) (*models.DashboardSnapshot, error)
}

// RefreshResult is a committed snapshot plus the crisis feed outcome that
// produced it
type RefreshResult struct {
	Snapshot     *models.DashboardSnapshot
	CrisisStatus models.AggregationStatus
}

// DashboardService runs refresh cycles and owns the live snapshot
type DashboardService struct {
	market      *MarketService
	macro       *MacroService
	crisisFeeds []CrisisFeed
	profile     models.ThresholdProfile
	cache       *cache.SnapshotCache
	store       SnapshotStore
	now         func() time.Time

	mu             sync.Mutex
	generation     uint64
	cancelInFlight context.CancelFunc
}

// NewDashboardService creates a new DashboardService. store may be nil.
func NewDashboardService(
	market *MarketService,
	macro *MacroService,
	crisisFeeds []CrisisFeed,
	profile models.ThresholdProfile,
	snapshotCache *cache.SnapshotCache,
	store SnapshotStore,
) *DashboardService {
	return &DashboardService{
		market:      market,
		macro:       macro,
		crisisFeeds: crisisFeeds,
		profile:     profile,
		cache:       snapshotCache,
		store:       store,
		now:         time.Now,
	}
}

// Profile returns the active threshold profile
func (s *DashboardService) Profile() models.ThresholdProfile {
	return s.profile
}

// Current returns the live snapshot and whether it is fresh
func (s *DashboardService) Current() (*models.DashboardSnapshot, bool, error) {
	snap, fresh := s.cache.Get()
	if snap == nil {
		return nil, false, ErrNoSnapshot
	}
	return snap, fresh, nil
}

// Restore loads the last persisted snapshot into the cache, if there is one
func (s *DashboardService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	snap, err := s.store.LoadLatest(ctx)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	if s.cache.Restore(snap) {
		log.Infof("Restored snapshot %s from %s", snap.RefreshID, snap.RefreshedAt.Format(time.RFC3339))
	}
	return nil
}

// Refresh fetches every section concurrently and, once all have settled,
// commits a new snapshot. A failed metals, rates or macro section is filled
// from the previous snapshot and reported as a warning. If every crisis feed
// fails nothing is committed and the error wraps ErrAggregationTotalFailure.
// Starting a refresh cancels any refresh still in flight; the cancelled one
// returns ErrRefreshSuperseded.
func (s *DashboardService) Refresh(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()
	refreshID := uuid.NewString()
	logger := log.WithField("refresh_id", refreshID)

	ctx, gen := s.begin(ctx)
	defer s.end(gen)

	ctx, wc := NewWarningContext(ctx)
	previous, _ := s.cache.Get()

	var (
		metals   []models.MetalQuote
		rates    *models.ExchangeRates
		overview models.MacroOverview
		series   []models.MacroSeries
		crisis   CrisisAggregation
	)

	var g errgroup.Group
	g.Go(func() error {
		quotes, err := s.market.FetchMetals(ctx)
		if err != nil {
			logger.Warnf("Refresh: metals section failed: %v", err)
			AddWarning(ctx, models.WarnMetalsStale, "metal prices unavailable, showing previous values: %v", err)
			if previous != nil {
				metals = previous.Metals
			}
			return nil
		}
		metals = quotes
		return nil
	})
	g.Go(func() error {
		r, err := s.market.FetchRates(ctx)
		if err != nil {
			logger.Warnf("Refresh: rates section failed: %v", err)
			AddWarning(ctx, models.WarnRatesStale, "exchange rates unavailable, showing previous values: %v", err)
			if previous != nil {
				rates = previous.Rates
			}
			return nil
		}
		rates = r
		return nil
	})
	g.Go(func() error {
		o, sr, err := s.macro.FetchMacro(ctx)
		if err != nil {
			logger.Warnf("Refresh: macro section failed: %v", err)
			AddWarning(ctx, models.WarnMacroStale, "macro indicators unavailable, showing previous values: %v", err)
			if previous != nil {
				overview, series = previous.MacroOverview, previous.MacroSeries
			}
			return nil
		}
		overview, series = o, sr
		return nil
	})
	g.Go(func() error {
		crisis = AggregateCrisis(ctx, s.crisisFeeds, s.profile)
		return nil
	})
	_ = g.Wait()

	if s.superseded(gen) {
		logger.Infof("Refresh: discarded, a newer refresh is running")
		metrics.RecordRefresh(metrics.OutcomeSuperseded, time.Since(start))
		return nil, ErrRefreshSuperseded
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordRefresh(metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}

	for _, f := range crisis.Failures {
		metrics.RecordFeedFailure(f.Feed)
	}
	if err := crisis.Err(); err != nil {
		logger.Errorf("Refresh: %v", err)
		metrics.RecordRefresh(metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}
	for _, w := range crisis.Warnings() {
		wc.Add(w)
	}

	snap := AssembleDashboard(metals, overview, series, crisis, rates)
	// sections finish in any order
	warnings := wc.Warnings()
	sort.SliceStable(warnings, func(i, j int) bool { return warnings[i].Code < warnings[j].Code })
	snap.Warnings = warnings
	snap.RefreshID = refreshID
	snap.RefreshedAt = s.now().UTC()

	if !s.cache.Commit(gen, &snap) {
		metrics.RecordRefresh(metrics.OutcomeSuperseded, time.Since(start))
		return nil, ErrRefreshSuperseded
	}

	outcome := metrics.OutcomeSuccess
	if len(snap.Warnings) > 0 {
		outcome = metrics.OutcomePartial
	}
	metrics.RecordRefresh(outcome, time.Since(start))
	metrics.SetCrisisEvents(len(snap.CrisisEvents))
	logger.Infof("Refresh: committed %d crisis events, %d metals, %d warnings", len(snap.CrisisEvents), len(snap.Metals), len(snap.Warnings))

	if s.store != nil {
		// the snapshot is already live; a newer refresh must not abort its save
		if err := s.store.Save(context.WithoutCancel(ctx), &snap); err != nil {
			logger.Errorf("warning: failed to persist snapshot: %v", err)
		}
	}

	return &RefreshResult{Snapshot: &snap, CrisisStatus: crisis.Status()}, nil
}

// Run refreshes immediately and then every interval until ctx is done
func (s *DashboardService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshSuperseded) && ctx.Err() == nil {
			log.Errorf("Scheduled refresh failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// begin starts a new generation and cancels the one in flight
func (s *DashboardService) begin(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelInFlight != nil {
		s.cancelInFlight()
	}
	s.generation++
	ctx, cancel := context.WithCancel(ctx)
	s.cancelInFlight = cancel
	return ctx, s.generation
}

func (s *DashboardService) end(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation == gen && s.cancelInFlight != nil {
		s.cancelInFlight()
		s.cancelInFlight = nil
	}
}

func (s *DashboardService) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.generation
}
