package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseLocalDate parses a YYYY-MM-DD string into a local-midnight time.
// The components are read directly rather than going through a generic
// ISO parse, so the calendar day never shifts across a UTC boundary for
// users west of UTC. Malformed input is an error; silently returning a
// zero time would corrupt every downstream bucket.
func ParseLocalDate(value string) (time.Time, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("timeutil: invalid date %q (expected YYYY-MM-DD)", value)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return time.Time{}, fmt.Errorf("timeutil: invalid year in %q", value)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("timeutil: invalid month in %q", value)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("timeutil: invalid day in %q", value)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	// time.Date normalizes overflow (Feb 30 becomes Mar 1); reject that.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("timeutil: nonexistent date %q", value)
	}
	return t, nil
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayKey returns the day bucket key (YYYY-MM-DD).
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekKey returns the ISO week bucket key (YYYY-Www). Weeks start on
// Monday; every window function in this module shares that convention.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey returns the month bucket key (YYYY-MM).
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// YearKey returns the year bucket key (YYYY).
func YearKey(t time.Time) string {
	return t.Format("2006")
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Monday local midnight at or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns the first of the month at local midnight.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole calendar days from a to b, ignoring any
// time-of-day component. Negative when b is before a. Rounding absorbs
// the 23/25-hour days around DST transitions.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24))
}

// AddDays shifts t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
