package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/epeers/crisisboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarningCollector_BasicUsage(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	AddWarning(ctx, models.WarnMetalsStale, "metals: %s", "timeout")
	AddWarning(ctx, models.WarnRatesStale, "rates: %s", "timeout")

	warnings := wc.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, models.Warning{Code: models.WarnMetalsStale, Message: "metals: timeout"}, warnings[0])
	assert.Equal(t, models.WarnRatesStale, warnings[1].Code)
}

func TestWarningCollector_NoCollectorNoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		AddWarning(context.Background(), models.WarnMacroStale, "dropped")
	})
}

func TestWarningCollector_EmptyByDefault(t *testing.T) {
	_, wc := NewWarningContext(context.Background())
	assert.Nil(t, wc.Warnings())
}

func TestWarningCollector_Deduplicates(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	AddWarning(ctx, models.WarnCrisisFeedFailed, "crisis feed storm unavailable")
	AddWarning(ctx, models.WarnCrisisFeedFailed, "crisis feed storm unavailable")
	wc.Add(models.Warning{Code: models.WarnCrisisFeedFailed, Message: "crisis feed seismic unavailable"})

	assert.Len(t, wc.Warnings(), 2)
}

func TestWarningCollector_ConcurrentSafe(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	var wg sync.WaitGroup
	n := 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			AddWarning(ctx, models.WarnCrisisFeedFailed, "feed %d", i)
		}()
	}
	wg.Wait()

	assert.Len(t, wc.Warnings(), n)
}

func TestWarningCollector_ContextPropagation(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())

	type key struct{}
	child, cancel := context.WithCancel(context.WithValue(ctx, key{}, "v"))
	defer cancel()
	AddWarning(child, models.WarnMacroStale, "from child")

	warnings := wc.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "from child", warnings[0].Message)
}

func TestWarningCollector_ReturnsCopy(t *testing.T) {
	ctx, wc := NewWarningContext(context.Background())
	AddWarning(ctx, models.WarnMacroStale, "original")

	warnings := wc.Warnings()
	warnings[0].Message = fmt.Sprintf("changed %d", 1)

	assert.Equal(t, "original", wc.Warnings()[0].Message)
}
