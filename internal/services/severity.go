package services

import (
	"math"
	"time"
)

// NewsRecencySeverity scores an item by age: under a day is 6, under three
// days is 5, anything older is 4. Boundaries fall into the older band.
func NewsRecencySeverity(age time.Duration) float64 {
	switch {
	case age < 24*time.Hour:
		return 6.0
	case age < 72*time.Hour:
		return 5.0
	default:
		return 4.0
	}
}

// GovernanceSeverity scores a political stability estimate
func GovernanceSeverity(value float64) float64 {
	return math.Abs(value) * 2
}

// RecessionSeverity scores a GDP growth rate
func RecessionSeverity(value float64) float64 {
	return math.Abs(value)
}
