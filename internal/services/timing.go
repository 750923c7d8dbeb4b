package services

import (
	"time"

	"github.com/epeers/crisisboard/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// TrackTime logs and records the duration of a step. Use it deferred:
// defer TrackTime("FetchMacro", time.Now())
func TrackTime(funcName string, start time.Time) {
	elapsed := time.Since(start)
	metrics.ObserveStep(funcName, elapsed)
	log.Debugf("%s took %d ms", funcName, elapsed.Milliseconds())
}
