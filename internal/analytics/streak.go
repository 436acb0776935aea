package analytics

import (
	"sort"
	"time"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// StreakReport summarizes consecutive-day play activity. A streak is a
// maximal run of consecutive calendar days with at least one session; a
// single missed day always breaks it, never bridged.
type StreakReport struct {
	Current      int    `json:"current"`
	Longest      int    `json:"longest"`
	LongestStart string `json:"longestStart,omitempty"`
	LongestEnd   string `json:"longestEnd,omitempty"`
	LastActive   string `json:"lastActive,omitempty"`
}

// Streaks computes the current and longest streaks over the whole play
// history. The current streak counts backward from today; it stays alive
// when today has no session yet but yesterday does, and dies once a full
// calendar day passes without play.
func Streaks(games []domain.Game, today time.Time) (StreakReport, error) {
	days, err := distinctPlayDays(games)
	if err != nil {
		return StreakReport{}, err
	}
	if len(days) == 0 {
		return StreakReport{}, nil
	}

	report := StreakReport{LastActive: timeutil.FormatDate(days[len(days)-1])}

	runStart := days[0]
	runLen := 1
	record := func(start time.Time, length int) {
		if length > report.Longest {
			report.Longest = length
			report.LongestStart = timeutil.FormatDate(start)
			report.LongestEnd = timeutil.FormatDate(timeutil.AddDays(start, length-1))
		}
	}
	for i := 1; i < len(days); i++ {
		if timeutil.DaysBetween(days[i-1], days[i]) == 1 {
			runLen++
			continue
		}
		record(runStart, runLen)
		runStart = days[i]
		runLen = 1
	}
	record(runStart, runLen)

	report.Current = currentStreak(days, timeutil.StartOfDay(today))
	return report, nil
}

func currentStreak(days []time.Time, today time.Time) int {
	last := days[len(days)-1]
	gap := timeutil.DaysBetween(last, today)
	if gap > 1 || gap < 0 {
		return 0
	}
	streak := 1
	for i := len(days) - 2; i >= 0; i-- {
		if timeutil.DaysBetween(days[i], days[i+1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// distinctPlayDays returns the sorted unique local dates carrying at least
// one session with positive hours.
func distinctPlayDays(games []domain.Game) ([]time.Time, error) {
	seen := make(map[string]time.Time)
	for _, g := range games {
		for _, pl := range g.PlayLogs {
			if pl.Hours <= 0 {
				continue
			}
			day, err := timeutil.ParseLocalDate(pl.Date)
			if err != nil {
				return nil, err
			}
			seen[pl.Date] = day
		}
	}
	days := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}
