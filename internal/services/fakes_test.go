package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/epeers/crisisboard/internal/feeds"
	"github.com/epeers/crisisboard/internal/models"
)

// fakeFetcher serves canned bodies by URL. Unknown URLs fail with a 404
// transport error.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
}

type fakeResponse struct {
	body string
	err  error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]fakeResponse)}
}

func (f *fakeFetcher) serve(url, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = fakeResponse{body: body}
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = fakeResponse{err: err}
}

func (f *fakeFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	r, ok := f.responses[url]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, &feeds.TransportError{URL: url, Err: err}
	}
	if !ok {
		return nil, &feeds.TransportError{URL: url, StatusCode: http.StatusNotFound}
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}

// stubFeed is a CrisisFeed with fixed output. With block set it waits for the
// context to end.
type stubFeed struct {
	name   string
	events []models.CrisisEvent
	err    error
	block  bool
	delay  time.Duration
}

func (f *stubFeed) Name() string { return f.name }

func (f *stubFeed) FetchEvents(ctx context.Context, _ models.ThresholdProfile) ([]models.CrisisEvent, error) {
	if f.block {
		<-ctx.Done()
		return nil, &feeds.TransportError{URL: f.name, Err: ctx.Err()}
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, &feeds.TransportError{URL: f.name, Err: ctx.Err()}
		case <-time.After(f.delay):
		}
	}
	return f.events, f.err
}

func event(id string, category models.CrisisCategory, severity float64) models.CrisisEvent {
	return models.CrisisEvent{
		ID:       id,
		Title:    "event " + id,
		Region:   "Region " + id,
		Category: category,
		Severity: severity,
	}
}
