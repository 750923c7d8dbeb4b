package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/epeers/crisisboard/internal/models"
)

type warningContextKey struct{}

// WarningCollector accumulates warnings raised by the concurrent sections of a
// refresh. Identical warnings are kept once.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
	seen     map[models.Warning]bool
}

// NewWarningContext returns a context carrying a fresh WarningCollector,
// plus the collector itself so the caller can read the warnings afterwards.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{seen: make(map[models.Warning]bool)}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning records a warning on the collector in ctx. Without a collector
// the call is a no-op.
func AddWarning(ctx context.Context, code models.WarningCode, format string, args ...any) {
	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.Add(models.Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Add appends w unless it was already recorded
func (wc *WarningCollector) Add(w models.Warning) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if wc.seen[w] {
		return
	}
	wc.seen[w] = true
	wc.warnings = append(wc.warnings, w)
}

// Warnings returns a copy of the collected warnings in the order they arrived
func (wc *WarningCollector) Warnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if len(wc.warnings) == 0 {
		return nil
	}
	out := make([]models.Warning, len(wc.warnings))
	copy(out, wc.warnings)
	return out
}
