// Package clock yields the wall-clock time of day in one configured zone.
package clock

import (
	"fmt"
	"time"
)

// DefaultZone is the zone the clock face shows when nothing else is configured.
const DefaultZone = "Europe/Berlin"

// Time is an hour/minute pair in the configured zone.
type Time struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// Of converts t to a Time in t's own location.
func Of(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute()}
}

func (t Time) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// Source reads the system clock and converts it into a fixed location.
type Source struct {
	loc *time.Location
	now func() time.Time
}

// NewSource returns a Source for loc. A nil now defaults to time.Now and a
// nil loc to UTC.
func NewSource(loc *time.Location, now func() time.Time) *Source {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Source{loc: loc, now: now}
}

// Location returns the zone the source converts into.
func (s *Source) Location() *time.Location { return s.loc }

// Now returns the current time of day in the source's location.
func (s *Source) Now() Time {
	return Of(s.now().In(s.loc))
}
