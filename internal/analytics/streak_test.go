package analytics

import (
	"testing"

	"gamelib-service/internal/domain"
)

func streakGames(dates ...string) []domain.Game {
	logs := make([]domain.PlayLog, 0, len(dates))
	for i, d := range dates {
		logs = append(logs, domain.PlayLog{ID: string(rune('a' + i)), Date: d, Hours: 1})
	}
	return []domain.Game{{ID: "g", Name: "G", PlayLogs: logs}}
}

func TestStreakGapIsNeverBridged(t *testing.T) {
	games := streakGames("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-05")

	report, err := Streaks(games, mustDay(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("streaks: %v", err)
	}
	if report.Longest != 3 {
		t.Fatalf("expected longest streak 3, got %d", report.Longest)
	}
	if report.LongestStart != "2024-01-01" || report.LongestEnd != "2024-01-03" {
		t.Fatalf("unexpected longest bounds: %s..%s", report.LongestStart, report.LongestEnd)
	}
	if report.Current != 1 {
		t.Fatalf("expected current streak 1 as of Jan 5 (Jan 4 gap breaks it), got %d", report.Current)
	}
}

func TestStreakCurrentSurvivesUntilFullDayMissed(t *testing.T) {
	games := streakGames("2024-01-03", "2024-01-04", "2024-01-05")

	// No session yet today; yesterday active keeps the streak alive.
	report, err := Streaks(games, mustDay(t, "2024-01-06"))
	if err != nil {
		t.Fatalf("streaks: %v", err)
	}
	if report.Current != 3 {
		t.Fatalf("expected current streak 3 the morning after, got %d", report.Current)
	}

	// A full missed day kills it.
	report, err = Streaks(games, mustDay(t, "2024-01-07"))
	if err != nil {
		t.Fatalf("streaks: %v", err)
	}
	if report.Current != 0 {
		t.Fatalf("expected current streak 0 after a missed day, got %d", report.Current)
	}
}

func TestStreakEmptyHistory(t *testing.T) {
	report, err := Streaks(nil, mustDay(t, "2024-01-05"))
	if err != nil {
		t.Fatalf("streaks: %v", err)
	}
	if report.Current != 0 || report.Longest != 0 || report.LastActive != "" {
		t.Fatalf("expected zero report on empty history, got %+v", report)
	}
}

func TestStreakSpansGames(t *testing.T) {
	games := []domain.Game{
		{ID: "a", Name: "A", PlayLogs: []domain.PlayLog{{ID: "1", Date: "2024-01-01", Hours: 1}}},
		{ID: "b", Name: "B", PlayLogs: []domain.PlayLog{{ID: "2", Date: "2024-01-02", Hours: 2}}},
		{ID: "c", Name: "C", PlayLogs: []domain.PlayLog{{ID: "3", Date: "2024-01-02", Hours: 1}}},
	}
	report, err := Streaks(games, mustDay(t, "2024-01-02"))
	if err != nil {
		t.Fatalf("streaks: %v", err)
	}
	if report.Longest != 2 || report.Current != 2 {
		t.Fatalf("expected cross-game streak of 2, got %+v", report)
	}
}

func TestStreakIgnoresZeroHourSessions(t *testing.T) {
	games := []domain.Game{{ID: "g", Name: "G", PlayLogs: []domain.PlayLog{
		{ID: "1", Date: "2024-01-01", Hours: 1},
		{ID: "2", Date: "2024-01-02", Hours: 0}, // zero hours does not keep a streak alive
		{ID: "3", Date: "2024-01-03", Hours: 1},
	}}}
	report, err := Streaks(games, mustDay(t, "2024-01-03"))
	if err != nil {
		t.Fatalf("streaks: %v", err)
	}
	if report.Longest != 1 {
		t.Fatalf("expected zero-hour day to break streak, got longest %d", report.Longest)
	}
}

func TestStreakMalformedDateFails(t *testing.T) {
	games := []domain.Game{{ID: "g", Name: "G", PlayLogs: []domain.PlayLog{{ID: "1", Date: "01/05/2024", Hours: 1}}}}
	if _, err := Streaks(games, mustDay(t, "2024-01-05")); err == nil {
		t.Fatalf("expected error on malformed date")
	}
}
