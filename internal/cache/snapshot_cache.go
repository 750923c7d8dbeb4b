package cache

import (
	"sync"
	"time"

	"github.com/epeers/crisisboard/internal/models"
)

// SnapshotCache holds the live dashboard snapshot. Each refresh commits under
// a generation number and only a newer generation may replace the snapshot,
// so a slow refresh can never overwrite a faster, later one.
type SnapshotCache struct {
	mu          sync.RWMutex
	snapshot    *models.DashboardSnapshot
	generation  uint64
	committedAt time.Time
	staleAfter  time.Duration
	now         func() time.Time
}

// NewSnapshotCache creates an empty cache. Snapshots older than staleAfter are
// reported as stale; zero disables staleness.
func NewSnapshotCache(staleAfter time.Duration) *SnapshotCache {
	return &SnapshotCache{staleAfter: staleAfter, now: time.Now}
}

// Get returns the live snapshot and whether it is still fresh
func (c *SnapshotCache) Get() (*models.DashboardSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false
	}
	fresh := c.staleAfter <= 0 || c.now().Sub(c.committedAt) <= c.staleAfter
	return c.snapshot, fresh
}

// Commit installs snap if generation is newer than the committed one. It
// reports whether the snapshot became live.
func (c *SnapshotCache) Commit(generation uint64, snap *models.DashboardSnapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil && generation <= c.generation {
		return false
	}
	c.snapshot = snap
	c.generation = generation
	c.committedAt = c.now()
	return true
}

// Restore installs a persisted snapshot if nothing is live yet. The restored
// snapshot carries generation zero, so any refresh replaces it.
func (c *SnapshotCache) Restore(snap *models.DashboardSnapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot != nil || snap == nil {
		return false
	}
	c.snapshot = snap
	c.committedAt = snap.RefreshedAt
	return true
}

// Generation returns the generation of the live snapshot
func (c *SnapshotCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Clear removes the live snapshot
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.generation = 0
	c.committedAt = time.Time{}
}
