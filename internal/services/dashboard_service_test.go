package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/epeers/crisisboard/internal/cache"
	"github.com/epeers/crisisboard/internal/feeds"
	"github.com/epeers/crisisboard/internal/models"
	"github.com/epeers/crisisboard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type memoryStore struct {
	mu         sync.Mutex
	saved      []*models.DashboardSnapshot
	latest     *models.DashboardSnapshot
	loadErr    error
	onSave     func()
	beforeSave func()
	saveCtxErr error
}

func (m *memoryStore) Save(ctx context.Context, snap *models.DashboardSnapshot) error {
	if m.beforeSave != nil {
		m.beforeSave()
	}

	m.mu.Lock()
	m.saveCtxErr = ctx.Err()
	m.saved = append(m.saved, snap)
	m.latest = snap
	onSave := m.onSave
	m.mu.Unlock()

	if onSave != nil {
		onSave()
	}
	return nil
}

func (m *memoryStore) LoadLatest(_ context.Context) (*models.DashboardSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.latest == nil {
		return nil, repository.ErrSnapshotNotFound
	}
	return m.latest, nil
}

func (m *memoryStore) savedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// gatedFeed blocks its first call until the context ends
type gatedFeed struct {
	calls   atomic.Int32
	started chan struct{}
}

func (f *gatedFeed) Name() string { return "gated" }

func (f *gatedFeed) FetchEvents(ctx context.Context, _ models.ThresholdProfile) ([]models.CrisisEvent, error) {
	if f.calls.Add(1) == 1 {
		close(f.started)
		<-ctx.Done()
		return nil, &feeds.TransportError{URL: "gated", Err: ctx.Err()}
	}
	return []models.CrisisEvent{event("g", models.CategoryStorm, 5.0)}, nil
}

func servedFetcher() *fakeFetcher {
	fetcher := newFakeFetcher()
	fetcher.serve(testPricesURL, testPricesBody)
	fetcher.serve(testRatesURL, testRatesBody)
	serveMacro(fetcher, "US")
	return fetcher
}

func newTestDashboard(fetcher *fakeFetcher, crisisFeeds []CrisisFeed, store SnapshotStore) *DashboardService {
	market := NewMarketService(fetcher, testPricesURL, testRatesURL, "USD")
	macro := NewMacroService(fetcher, testWorldBank, "US", 0)
	svc := NewDashboardService(market, macro, crisisFeeds, models.DefaultThresholdProfile, cache.NewSnapshotCache(time.Hour), store)
	svc.now = func() time.Time { return testNow }
	return svc
}

func warningCodes(warnings []models.Warning) []models.WarningCode {
	var codes []models.WarningCode
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestDashboardService_Refresh(t *testing.T) {
	store := &memoryStore{}
	crisisFeeds := []CrisisFeed{
		&stubFeed{name: "seismic", events: []models.CrisisEvent{event("q", models.CategorySeismic, 6.0)}},
		&stubFeed{name: "storm", events: []models.CrisisEvent{event("s", models.CategoryStorm, 5.0)}},
	}
	svc := newTestDashboard(servedFetcher(), crisisFeeds, store)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.AggregationComplete, result.CrisisStatus)
	snap := result.Snapshot
	assert.NotEmpty(t, snap.RefreshID)
	assert.Equal(t, testNow, snap.RefreshedAt)
	assert.Len(t, snap.Metals, 2)
	assert.Len(t, snap.MacroSeries, 3)
	assert.Equal(t, "EUR", snap.Rates.Base)
	assert.Equal(t, []string{"q", "s"}, []string{snap.CrisisEvents[0].ID, snap.CrisisEvents[1].ID})
	assert.Empty(t, snap.Warnings)

	current, fresh, err := svc.Current()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, snap.RefreshID, current.RefreshID)
	assert.Equal(t, 1, store.savedCount())
}

func TestDashboardService_PartialFailureKeepsPreviousSections(t *testing.T) {
	fetcher := servedFetcher()
	crisisFeeds := []CrisisFeed{
		&stubFeed{name: "seismic", events: []models.CrisisEvent{event("q", models.CategorySeismic, 6.0)}},
	}
	svc := newTestDashboard(fetcher, crisisFeeds, nil)

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	fetcher.fail(testPricesURL, &feeds.TransportError{URL: testPricesURL, StatusCode: http.StatusBadGateway})
	fetcher.fail(testRatesURL, &feeds.TransportError{URL: testRatesURL, StatusCode: http.StatusBadGateway})
	svc.crisisFeeds = []CrisisFeed{
		&stubFeed{name: "seismic", events: []models.CrisisEvent{event("q2", models.CategorySeismic, 5.5)}},
		&stubFeed{name: "storm", err: &feeds.TransportError{URL: "nws", StatusCode: http.StatusServiceUnavailable}},
	}

	second, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.AggregationPartial, second.CrisisStatus)
	assert.NotEqual(t, first.Snapshot.RefreshID, second.Snapshot.RefreshID)
	assert.Equal(t, first.Snapshot.Metals, second.Snapshot.Metals)
	assert.Equal(t, first.Snapshot.Rates, second.Snapshot.Rates)
	assert.Equal(t, "q2", second.Snapshot.CrisisEvents[0].ID)
	assert.Equal(t,
		[]models.WarningCode{models.WarnCrisisFeedFailed, models.WarnMetalsStale, models.WarnRatesStale},
		warningCodes(second.Snapshot.Warnings))
}

func TestDashboardService_WarningsOrderedByCode(t *testing.T) {
	fetcher := servedFetcher()
	fetcher.fail(testPricesURL, &feeds.TransportError{URL: testPricesURL, StatusCode: http.StatusBadGateway})
	fetcher.fail(testRatesURL, &feeds.TransportError{URL: testRatesURL, StatusCode: http.StatusBadGateway})
	fetcher.fail(feeds.IndicatorURL(testWorldBank, "US", "FP.CPI.TOTL.ZG", 15),
		&feeds.TransportError{URL: "wb", StatusCode: http.StatusInternalServerError})
	svc := newTestDashboard(fetcher, []CrisisFeed{&stubFeed{name: "seismic"}}, nil)

	expected := []models.WarningCode{models.WarnMetalsStale, models.WarnMacroStale, models.WarnRatesStale}
	for i := 0; i < 20; i++ {
		result, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.Equal(t, expected, warningCodes(result.Snapshot.Warnings), "refresh %d", i)
	}
}

func TestDashboardService_PersistSurvivesNewerRefresh(t *testing.T) {
	store := &memoryStore{}
	svc := newTestDashboard(servedFetcher(), []CrisisFeed{&stubFeed{name: "seismic"}}, store)

	// a newer refresh starts while the committed snapshot is being saved
	store.beforeSave = func() {
		_, gen := svc.begin(context.Background())
		svc.end(gen)
	}

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, store.savedCount())
	assert.NoError(t, store.saveCtxErr)
	latest, err := store.LoadLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.Snapshot.RefreshID, latest.RefreshID)
}

func TestDashboardService_SectionFailureWithoutPrevious(t *testing.T) {
	fetcher := servedFetcher()
	fetcher.fail(feeds.IndicatorURL(testWorldBank, "US", "NY.GDP.MKTP.KD.ZG", 15),
		&feeds.TransportError{URL: "wb", StatusCode: http.StatusInternalServerError})
	svc := newTestDashboard(fetcher, []CrisisFeed{&stubFeed{name: "seismic"}}, nil)

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Snapshot.MacroSeries)
	assert.Equal(t, []models.WarningCode{models.WarnMacroStale}, warningCodes(result.Snapshot.Warnings))
}

func TestDashboardService_TotalCrisisFailureCommitsNothing(t *testing.T) {
	fetcher := servedFetcher()
	store := &memoryStore{}
	svc := newTestDashboard(fetcher, []CrisisFeed{
		&stubFeed{name: "seismic", events: []models.CrisisEvent{event("q", models.CategorySeismic, 6.0)}},
	}, store)

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	svc.crisisFeeds = []CrisisFeed{
		&stubFeed{name: "seismic", err: &feeds.TransportError{URL: "usgs", StatusCode: http.StatusBadGateway}},
		&stubFeed{name: "storm", err: &feeds.TransportError{URL: "nws", StatusCode: http.StatusBadGateway}},
	}

	_, err = svc.Refresh(context.Background())
	require.ErrorIs(t, err, ErrAggregationTotalFailure)

	current, _, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, first.Snapshot.RefreshID, current.RefreshID)
	assert.Equal(t, 1, store.savedCount())
}

func TestDashboardService_NewerRefreshSupersedesStale(t *testing.T) {
	gated := &gatedFeed{started: make(chan struct{})}
	svc := newTestDashboard(servedFetcher(), []CrisisFeed{gated}, nil)

	staleErr := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		staleErr <- err
	}()
	<-gated.started

	fresh, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case err := <-staleErr:
		assert.ErrorIs(t, err, ErrRefreshSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("stale refresh was not cancelled")
	}

	current, _, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, fresh.Snapshot.RefreshID, current.RefreshID)
	assert.Equal(t, "g", current.CrisisEvents[0].ID)
}

func TestDashboardService_CurrentWithoutSnapshot(t *testing.T) {
	svc := newTestDashboard(servedFetcher(), nil, nil)

	_, _, err := svc.Current()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestDashboardService_Restore(t *testing.T) {
	persisted := &models.DashboardSnapshot{RefreshID: "persisted", RefreshedAt: testNow.Add(-30 * time.Minute)}
	svc := newTestDashboard(servedFetcher(), []CrisisFeed{&stubFeed{name: "seismic"}}, &memoryStore{latest: persisted})

	require.NoError(t, svc.Restore(context.Background()))
	current, _, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "persisted", current.RefreshID)

	// any refresh replaces the restored snapshot
	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	current, _, err = svc.Current()
	require.NoError(t, err)
	assert.Equal(t, result.Snapshot.RefreshID, current.RefreshID)
}

func TestDashboardService_RestoreNothingPersisted(t *testing.T) {
	assert.NoError(t, newTestDashboard(servedFetcher(), nil, &memoryStore{}).Restore(context.Background()))
	assert.NoError(t, newTestDashboard(servedFetcher(), nil, nil).Restore(context.Background()))

	failing := newTestDashboard(servedFetcher(), nil, &memoryStore{loadErr: errors.New("connection refused")})
	assert.Error(t, failing.Restore(context.Background()))
}

func TestDashboardService_RunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memoryStore{onSave: cancel}
	svc := newTestDashboard(servedFetcher(), []CrisisFeed{&stubFeed{name: "seismic"}}, store)

	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Equal(t, 1, store.savedCount())
}
