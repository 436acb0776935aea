package analytics

import (
	"fmt"
	"sort"
	"time"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// Window is a closed-closed range of local calendar days: an event on
// either boundary day is inside. Adjacent windows built with Previous
// partition events with no overlap and no gap.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a window from local-midnight day bounds. End before
// Start is an error.
func NewWindow(start, end time.Time) (Window, error) {
	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	if end.Before(start) {
		return Window{}, fmt.Errorf("analytics: window end %s before start %s",
			timeutil.FormatDate(end), timeutil.FormatDate(start))
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether the calendar day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	day := timeutil.StartOfDay(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Days is the window length in calendar days.
func (w Window) Days() int {
	return timeutil.DaysBetween(w.Start, w.End) + 1
}

// Previous is the immediately preceding window of equal length, ending the
// day before Start.
func (w Window) Previous() Window {
	days := w.Days()
	return Window{
		Start: timeutil.AddDays(w.Start, -days),
		End:   timeutil.AddDays(w.End, -days),
	}
}

// WeekWindow returns the Monday-start calendar week containing ref,
// shifted back by offset weeks (offset 0 = this week, 1 = last week).
func WeekWindow(ref time.Time, offset int) Window {
	start := timeutil.AddDays(timeutil.StartOfWeek(ref), -7*offset)
	return Window{Start: start, End: timeutil.AddDays(start, 6)}
}

// MonthWindow returns the calendar month containing ref, shifted back by
// offset months.
func MonthWindow(ref time.Time, offset int) Window {
	start := timeutil.StartOfMonth(ref).AddDate(0, -offset, 0)
	end := timeutil.AddDays(start.AddDate(0, 1, 0), -1)
	return Window{Start: start, End: end}
}

// LastNDays returns the window of the n calendar days ending on ref's day.
func LastNDays(ref time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	end := timeutil.StartOfDay(ref)
	return Window{Start: timeutil.AddDays(end, -(n - 1)), End: end}
}

// PlayEvent is one play-log entry flattened out of its game, carrying the
// back-reference the report consumers need.
type PlayEvent struct {
	GameID   string    `json:"gameId"`
	GameName string    `json:"gameName"`
	Date     time.Time `json:"date"`
	Hours    float64   `json:"hours"`
	Notes    string    `json:"notes,omitempty"`
}

// CollectEvents flattens every play log into dated events. A malformed log
// date fails the whole call: silently skipping it would corrupt every
// bucket downstream, and the storage boundary is responsible for keeping
// dates well-formed. Negative hours are clamped to zero.
func CollectEvents(games []domain.Game) ([]PlayEvent, error) {
	var events []PlayEvent
	for _, g := range games {
		for _, pl := range g.PlayLogs {
			day, err := timeutil.ParseLocalDate(pl.Date)
			if err != nil {
				return nil, fmt.Errorf("analytics: game %q log %q: %w", g.ID, pl.ID, err)
			}
			hours := pl.Hours
			if hours < 0 {
				hours = 0
			}
			events = append(events, PlayEvent{
				GameID:   g.ID,
				GameName: g.Name,
				Date:     day,
				Hours:    hours,
				Notes:    pl.Notes,
			})
		}
	}
	return events, nil
}

// Trend is the qualitative direction of a window comparison.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// WindowComparison holds deltas against the immediately preceding window
// of equal length.
type WindowComparison struct {
	HoursDelta       float64 `json:"hoursDelta"`
	SessionsDelta    int     `json:"sessionsDelta"`
	CompletionsDelta int     `json:"completionsDelta"`
	Direction        Trend   `json:"direction"`
}

// WindowReport aggregates play events inside one window. An empty library
// or an empty window yields a zero-valued report, never an error: the
// consumers render empty states.
type WindowReport struct {
	Window        Window             `json:"window"`
	Events        []PlayEvent        `json:"events"`
	TotalHours    float64            `json:"totalHours"`
	TotalSessions int                `json:"totalSessions"`
	UniqueGames   int                `json:"uniqueGames"`
	Completions   int                `json:"completions"`
	HoursByGame   map[string]float64 `json:"hoursByGame"`
	MostPlayed    *SuperlativePick   `json:"mostPlayed,omitempty"`
	Comparison    *WindowComparison  `json:"comparison,omitempty"`
}

// BuildReport computes the report for w, including a comparison against
// the preceding equal-length window.
func BuildReport(games []domain.Game, w Window, cfg Config) (WindowReport, error) {
	events, err := CollectEvents(games)
	if err != nil {
		return WindowReport{}, err
	}

	report := buildReportFromEvents(games, events, w)
	prev := buildReportFromEvents(games, events, w.Previous())
	report.Comparison = compare(report, prev, cfg)
	return report, nil
}

func buildReportFromEvents(games []domain.Game, events []PlayEvent, w Window) WindowReport {
	report := WindowReport{
		Window:      w,
		Events:      []PlayEvent{},
		HoursByGame: make(map[string]float64),
	}

	names := make(map[string]string)
	for _, ev := range events {
		if !w.Contains(ev.Date) {
			continue
		}
		report.Events = append(report.Events, ev)
		report.TotalSessions++
		report.TotalHours += ev.Hours
		report.HoursByGame[ev.GameID] += ev.Hours
		names[ev.GameID] = ev.GameName
	}
	report.UniqueGames = len(report.HoursByGame)
	report.MostPlayed = pickMostPlayed(report.Events, report.HoursByGame, names)
	report.Completions = completionsIn(games, w)
	return report
}

// pickMostPlayed takes the game with the most hours inside the window,
// breaking ties by first event encountered.
func pickMostPlayed(events []PlayEvent, hoursByGame map[string]float64, names map[string]string) *SuperlativePick {
	var pick *SuperlativePick
	seen := make(map[string]struct{})
	for _, ev := range events {
		if _, ok := seen[ev.GameID]; ok {
			continue
		}
		seen[ev.GameID] = struct{}{}
		hours := hoursByGame[ev.GameID]
		if pick == nil || hours > pick.Value {
			pick = &SuperlativePick{GameID: ev.GameID, Name: names[ev.GameID], Value: hours}
		}
	}
	return pick
}

func completionsIn(games []domain.Game, w Window) int {
	count := 0
	for _, g := range games {
		if g.Status != domain.StatusCompleted || g.EndDate == "" {
			continue
		}
		end, err := timeutil.ParseLocalDate(g.EndDate)
		if err != nil {
			continue
		}
		if w.Contains(end) {
			count++
		}
	}
	return count
}

// compare derives deltas with a deadband so noise does not flip the
// direction indicator between calls.
func compare(current, previous WindowReport, cfg Config) *WindowComparison {
	cmp := &WindowComparison{
		HoursDelta:       round2(current.TotalHours - previous.TotalHours),
		SessionsDelta:    current.TotalSessions - previous.TotalSessions,
		CompletionsDelta: current.Completions - previous.Completions,
	}

	base := previous.TotalHours
	delta := current.TotalHours - previous.TotalHours
	switch {
	case base == 0 && delta == 0:
		cmp.Direction = TrendFlat
	case base == 0:
		cmp.Direction = TrendUp
	default:
		relative := delta / base
		switch {
		case relative > cfg.ComparisonDeadband:
			cmp.Direction = TrendUp
		case relative < -cfg.ComparisonDeadband:
			cmp.Direction = TrendDown
		default:
			cmp.Direction = TrendFlat
		}
	}
	return cmp
}

// LastCompletedWeek scans backward from the week before ref's for the most
// recent fully elapsed week with any play time, bounded at a year. Used as
// a sane default when no period was picked explicitly.
func LastCompletedWeek(games []domain.Game, ref time.Time) (Window, bool, error) {
	return lastActiveWindow(games, func(offset int) Window {
		return WeekWindow(ref, offset)
	}, 52)
}

// LastCompletedMonth is the month analog of LastCompletedWeek, bounded at
// two years.
func LastCompletedMonth(games []domain.Game, ref time.Time) (Window, bool, error) {
	return lastActiveWindow(games, func(offset int) Window {
		return MonthWindow(ref, offset)
	}, 24)
}

func lastActiveWindow(games []domain.Game, windowAt func(offset int) Window, maxBack int) (Window, bool, error) {
	events, err := CollectEvents(games)
	if err != nil {
		return Window{}, false, err
	}
	for offset := 1; offset <= maxBack; offset++ {
		w := windowAt(offset)
		for _, ev := range events {
			if w.Contains(ev.Date) && ev.Hours > 0 {
				return w, true, nil
			}
		}
	}
	return Window{}, false, nil
}

// CumulativeHours is the all-time counter report: total hours played plus
// per-year buckets, as of ref.
type CumulativeHours struct {
	AsOf        string             `json:"asOf"`
	TotalHours  float64            `json:"totalHours"`
	HoursByYear map[string]float64 `json:"hoursByYear"`
}

// CumulativeHoursCounter sums every event on or before ref's day. Baseline
// game hours are included in TotalHours but, having no date, not in any
// year bucket.
func CumulativeHoursCounter(games []domain.Game, ref time.Time) (CumulativeHours, error) {
	events, err := CollectEvents(games)
	if err != nil {
		return CumulativeHours{}, err
	}
	counter := CumulativeHours{
		AsOf:        timeutil.FormatDate(ref),
		HoursByYear: make(map[string]float64),
	}
	cutoff := timeutil.StartOfDay(ref)
	for _, ev := range events {
		if ev.Date.After(cutoff) {
			continue
		}
		counter.TotalHours += ev.Hours
		counter.HoursByYear[timeutil.YearKey(ev.Date)] += ev.Hours
	}
	for _, g := range games {
		if !g.IsWishlist() && g.Hours > 0 {
			counter.TotalHours += g.Hours
		}
	}
	return counter, nil
}

// ActivityFeed returns the most recent events on or before ref's day,
// newest first, capped at limit. Same-day events keep collection order.
func ActivityFeed(games []domain.Game, ref time.Time, limit int) ([]PlayEvent, error) {
	events, err := CollectEvents(games)
	if err != nil {
		return nil, err
	}
	cutoff := timeutil.StartOfDay(ref)
	feed := make([]PlayEvent, 0, len(events))
	for _, ev := range events {
		if !ev.Date.After(cutoff) {
			feed = append(feed, ev)
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	if limit > 0 && len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}
