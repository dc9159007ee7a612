// Package timewindow isolates the civil-calendar arithmetic used by the
// operative day boundary, the alert classifier and overtime shift rollovers.
package timewindow

import (
	"fmt"
	"time"
)

const DayLayout = "2006-01-02"

// Zone anchors civil-day computations to one fixed location, independent of
// the server's or the caller's timezone.
type Zone struct {
	loc *time.Location
}

func NewZone(loc *time.Location) Zone {
	if loc == nil {
		loc = time.UTC
	}
	return Zone{loc: loc}
}

func LoadZone(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewZone(loc), nil
}

func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

func (z Zone) Local(t time.Time) time.Time {
	return t.In(z.Location())
}

// CivilDay returns the YYYY-MM-DD label of the day containing t.
func (z Zone) CivilDay(t time.Time) string {
	return z.Local(t).Format(DayLayout)
}

// CivilDayBounds returns [start, end) of the civil day containing t.
func (z Zone) CivilDayBounds(t time.Time) (time.Time, time.Time) {
	local := z.Local(t)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, z.Location())
	return start, start.AddDate(0, 0, 1)
}

func (z Zone) Weekday(t time.Time) time.Weekday {
	return z.Local(t).Weekday()
}

// ParseDay parses a YYYY-MM-DD label as midnight in the zone.
func (z Zone) ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, day, z.Location())
}

// At places a wall-clock time on the given civil day.
func (z Zone) At(day time.Time, c Clock) time.Time {
	local := z.Local(day)
	return time.Date(local.Year(), local.Month(), local.Day(), c.Hour, c.Minute, 0, 0, z.Location())
}

// Format renders t in the zone for human-readable narration.
func (z Zone) Format(t time.Time) string {
	return z.Local(t).Format("2006-01-02 15:04")
}

// MinutesSinceMidnight uses t's own location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SameDayMinutesDiff is a − b in minutes with both read as wall-clock times of
// the same calendar day. There is no rollover handling.
func (z Zone) SameDayMinutesDiff(a time.Time, b Clock) int {
	return MinutesSinceMidnight(z.Local(a)) - b.Minutes()
}

// RollForwardIfBefore moves t one day ahead when it falls before reference.
// Used for shifts and punches that cross midnight.
func RollForwardIfBefore(t, reference time.Time) time.Time {
	if t.Before(reference) {
		return t.AddDate(0, 0, 1)
	}
	return t
}
