package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TimestampLayout is the display format for event timestamps
const TimestampLayout = "2006-01-02 15:04 MST"

// FormatTimestamp renders t in the named IANA zone. An unknown zone falls back
// to UTC; an empty name means UTC.
func FormatTimestamp(t time.Time, zone string) string {
	loc := time.UTC
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			log.Errorf("Failed to load location %q: %v. Falling back to UTC.", zone, err)
		} else {
			loc = l
		}
	}
	return t.In(loc).Format(TimestampLayout)
}

// CurrentYear returns the calendar year of now in UTC
func CurrentYear(now time.Time) int {
	return now.UTC().Year()
}
