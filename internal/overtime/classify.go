// Package overtime derives overtime hours from attendance punches and decides
// how validation submissions reconcile with the locally stored records.
package overtime

import (
	"fmt"
	"math"
	"time"

	"ops-portal.com/ops-portal/internal/timewindow"
)

type Category string

const (
	CategoryShift     Category = "SHIFT"
	CategoryRestDay   Category = "REST_DAY"
	CategoryNoPunches Category = "NO_PUNCHES"
)

// Attendance is one employee day as reported by the time-tracking service.
// Times are wall-clock HH:MM[:SS] values of that day.
type Attendance struct {
	Date                  string
	TheoreticalStart      string
	TheoreticalEnd        string
	Punches               []string
	AuthorizedBeforeHours float64
	AuthorizedAfterHours  float64
}

func (a Attendance) AuthorizedHours() float64 {
	return Round(a.AuthorizedBeforeHours + a.AuthorizedAfterHours)
}

type Classification struct {
	Date         string   `json:"date"`
	Category     Category `json:"category"`
	BeforeShift  float64  `json:"before_shift_hours"`
	AfterShift   float64  `json:"after_shift_hours"`
	RestDayHours float64  `json:"rest_day_hours"`
	Total        float64  `json:"total_hours"`
}

// IsRestDay reports whether the theoretical shift is absent or the 00:00-00:00
// sentinel.
func (a Attendance) IsRestDay() bool {
	if a.TheoreticalStart == "" || a.TheoreticalEnd == "" {
		return true
	}
	start, errStart := timewindow.ParseClock(a.TheoreticalStart)
	end, errEnd := timewindow.ParseClock(a.TheoreticalEnd)
	if errStart != nil || errEnd != nil {
		return false
	}
	return start.IsMidnight() && end.IsMidnight()
}

func Classify(zone timewindow.Zone, day Attendance) (Classification, error) {
	result := Classification{Date: day.Date}

	if len(day.Punches) < 2 {
		result.Category = CategoryNoPunches
		return result, nil
	}

	base, err := zone.ParseDay(day.Date)
	if err != nil {
		return Classification{}, fmt.Errorf("invalid attendance date %q: %w", day.Date, err)
	}

	realStart, realEnd, err := punchBounds(zone, base, day.Punches)
	if err != nil {
		return Classification{}, err
	}

	if day.IsRestDay() {
		result.Category = CategoryRestDay
		result.RestDayHours = hoursBetween(realStart, realEnd)
		result.Total = result.RestDayHours
		return result, nil
	}

	theoStartClock, err := timewindow.ParseClock(day.TheoreticalStart)
	if err != nil {
		return Classification{}, err
	}
	theoEndClock, err := timewindow.ParseClock(day.TheoreticalEnd)
	if err != nil {
		return Classification{}, err
	}
	theoStart := zone.At(base, theoStartClock)
	theoEnd := timewindow.RollForwardIfBefore(zone.At(base, theoEndClock), theoStart)

	result.Category = CategoryShift
	if realStart.Before(theoStart) {
		result.BeforeShift = hoursBetween(realStart, theoStart)
	}
	if realEnd.After(theoEnd) {
		result.AfterShift = hoursBetween(theoEnd, realEnd)
	}
	result.Total = Round(result.BeforeShift + result.AfterShift)
	return result, nil
}

// punchBounds takes the first and last punch as the real start and end. The
// end rolls to the next day when it reads earlier than the start.
func punchBounds(zone timewindow.Zone, base time.Time, punches []string) (time.Time, time.Time, error) {
	first, err := timewindow.ParseClock(punches[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid punch: %w", err)
	}
	last, err := timewindow.ParseClock(punches[len(punches)-1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid punch: %w", err)
	}
	start := zone.At(base, first)
	end := timewindow.RollForwardIfBefore(zone.At(base, last), start)
	return start, end, nil
}

func hoursBetween(from, to time.Time) float64 {
	return Round(to.Sub(from).Hours())
}

// Round rounds hours to two decimals.
func Round(hours float64) float64 {
	return math.Round(hours*100) / 100
}
