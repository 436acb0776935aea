package analytics

import (
	"math"
	"testing"

	"gamelib-service/internal/domain"
)

func TestPersonalityEmptyLibraryIsBalanced(t *testing.T) {
	result := ClassifyPersonality(nil)
	if result.Type != PersonalityBalanced {
		t.Fatalf("expected Balanced on empty library, got %s", result.Type)
	}
}

func TestPersonalityCompletionist(t *testing.T) {
	games := []domain.Game{
		{ID: "a", Status: domain.StatusCompleted, Hours: 10, Genre: "RPG"},
		{ID: "b", Status: domain.StatusCompleted, Hours: 12, Genre: "RPG"},
		{ID: "c", Status: domain.StatusCompleted, Hours: 8, Genre: "RPG"},
		{ID: "d", Status: domain.StatusInProgress, Hours: 5, Genre: "RPG"},
	}
	result := ClassifyPersonality(games)
	if result.Type != PersonalityCompletionist {
		t.Fatalf("expected Completionist at 75%% completion, got %s (scores %+v)", result.Type, result.Scores)
	}
}

func TestPersonalityBacklogHoarder(t *testing.T) {
	var games []domain.Game
	for i := 0; i < 9; i++ {
		games = append(games, domain.Game{ID: string(rune('a' + i)), Status: domain.StatusNotStarted})
	}
	games = append(games, domain.Game{ID: "played", Status: domain.StatusInProgress, Hours: 3})
	result := ClassifyPersonality(games)
	if result.Type != PersonalityBacklogHoard {
		t.Fatalf("expected Backlog Hoarder with 90%% unstarted, got %s (scores %+v)", result.Type, result.Scores)
	}
}

func TestPersonalityDeepDiver(t *testing.T) {
	games := []domain.Game{
		{ID: "a", Status: domain.StatusInProgress, Hours: 120},
		{ID: "b", Status: domain.StatusInProgress, Hours: 90},
	}
	result := ClassifyPersonality(games)
	if result.Type != PersonalityDeepDiver {
		t.Fatalf("expected Deep Diver with huge average hours, got %s (scores %+v)", result.Type, result.Scores)
	}
}

func TestPersonalityDeterministicTiebreak(t *testing.T) {
	games := []domain.Game{{ID: "a", Status: domain.StatusCompleted, Hours: 10}}
	first := ClassifyPersonality(games)
	for i := 0; i < 5; i++ {
		if got := ClassifyPersonality(games); got.Type != first.Type {
			t.Fatalf("classification flapped between calls: %s vs %s", got.Type, first.Type)
		}
	}
}

func TestCompletionProbabilityFactorsSumToScore(t *testing.T) {
	configured := DefaultConfig()
	games := []domain.Game{
		{ID: "target", Genre: "RPG", Status: domain.StatusInProgress, Hours: 30, PlayLogs: []domain.PlayLog{{ID: "1", Date: "2024-03-01", Hours: 2}}},
		{ID: "done", Genre: "RPG", Status: domain.StatusCompleted, Hours: 40},
		{ID: "dropped", Genre: "RPG", Status: domain.StatusAbandoned, Hours: 10},
	}

	p := CalculateCompletionProbability(games[0], games, mustDay(t, "2024-03-05"), configured)

	sum := p.Base
	for _, f := range p.Factors {
		sum += f.Impact
	}
	if clamped := clamp(round2(sum), 0, 100); clamped != p.Score {
		t.Fatalf("factors (+base) sum %v does not equal score %v", clamped, p.Score)
	}
	if p.Score < 0 || p.Score > 100 {
		t.Fatalf("score out of bounds: %v", p.Score)
	}
}

func TestCompletionProbabilityTerminalStates(t *testing.T) {
	configured := DefaultConfig()
	done := CalculateCompletionProbability(domain.Game{ID: "d", Status: domain.StatusCompleted}, nil, mustDay(t, "2024-01-01"), configured)
	if done.Score != 100 {
		t.Fatalf("expected 100 for completed game, got %v", done.Score)
	}
	dropped := CalculateCompletionProbability(domain.Game{ID: "x", Status: domain.StatusAbandoned}, nil, mustDay(t, "2024-01-01"), configured)
	if dropped.Score != 0 {
		t.Fatalf("expected 0 for abandoned game, got %v", dropped.Score)
	}
}

func TestCompletionProbabilityDegenerateInput(t *testing.T) {
	configured := DefaultConfig()
	p := CalculateCompletionProbability(domain.Game{ID: "new", Status: domain.StatusNotStarted}, nil, mustDay(t, "2024-01-01"), configured)
	if math.IsNaN(p.Score) {
		t.Fatalf("expected numeric score, got NaN")
	}
	if p.Score < 0 || p.Score > 100 {
		t.Fatalf("score out of bounds: %v", p.Score)
	}
}

func TestHiddenGems(t *testing.T) {
	configured := DefaultConfig()
	games := []domain.Game{
		{ID: "gem", Name: "Gem", Price: 5, Hours: 40, Rating: 9},
		{ID: "pricey", Name: "Pricey", Price: 60, Hours: 40, Rating: 9},
		{ID: "meh", Name: "Meh", Price: 5, Hours: 40, Rating: 4},
		{ID: "wish", Name: "Wish", Price: 5, Hours: 40, Rating: 9, Status: domain.StatusWishlist},
	}
	gems := HiddenGems(games, configured)
	if len(gems) != 1 || gems[0].GameID != "gem" {
		t.Fatalf("expected only the cheap high-rated game, got %+v", gems)
	}
}

func TestRegretPurchases(t *testing.T) {
	configured := DefaultConfig()
	games := []domain.Game{
		{ID: "regret", Name: "Regret", Price: 70, Hours: 1, Rating: 3},
		{ID: "unrated", Name: "Unrated", Price: 60, Hours: 0},
		{ID: "loved", Name: "Loved", Price: 70, Hours: 80, Rating: 9},
	}
	regrets := RegretPurchases(games, configured)
	if len(regrets) != 2 {
		t.Fatalf("expected 2 regrets, got %+v", regrets)
	}
	if regrets[0].GameID != "regret" && regrets[0].GameID != "unrated" {
		t.Fatalf("unexpected top regret: %+v", regrets[0])
	}
}

func TestTopNCapsAndSorts(t *testing.T) {
	picks := []GameScore{{GameID: "a", Score: 1}, {GameID: "b", Score: 5}, {GameID: "c", Score: 3}}
	top := topN(picks, 2)
	if len(top) != 2 || top[0].GameID != "b" || top[1].GameID != "c" {
		t.Fatalf("unexpected ranking: %+v", top)
	}
}

func TestRotationHealthBuckets(t *testing.T) {
	configured := DefaultConfig()
	ref := mustDay(t, "2024-06-01")
	games := []domain.Game{
		{ID: "hot", PlayLogs: []domain.PlayLog{{ID: "1", Date: "2024-05-30", Hours: 2}}},
		{ID: "cooling", PlayLogs: []domain.PlayLog{{ID: "2", Date: "2024-04-20", Hours: 2}}}, // 42 days
		{ID: "dormant", PlayLogs: []domain.PlayLog{{ID: "3", Date: "2024-02-01", Hours: 2}}},
		{ID: "never", PlayLogs: nil},
	}
	health := ClassifyRotation(games, ref, configured)
	if health.Active != 1 || health.Cooling != 1 || health.Dormant != 1 {
		t.Fatalf("unexpected buckets: %+v", health)
	}
	if health.Label != RotationObsessed {
		t.Fatalf("expected Obsessed with one active game, got %s", health.Label)
	}
}

func TestRotationHealthLabels(t *testing.T) {
	configured := DefaultConfig()
	ref := mustDay(t, "2024-06-01")

	build := func(active int) []domain.Game {
		var games []domain.Game
		for i := 0; i < active; i++ {
			games = append(games, domain.Game{
				ID:       string(rune('a' + i)),
				PlayLogs: []domain.PlayLog{{ID: "1", Date: "2024-05-30", Hours: 1}},
			})
		}
		return games
	}

	cases := []struct {
		active int
		want   RotationLabel
	}{
		{0, RotationHealthy},
		{1, RotationObsessed},
		{2, RotationFocused},
		{4, RotationHealthy},
		{6, RotationJuggling},
		{9, RotationOverwhelmed},
	}
	for _, tc := range cases {
		if got := ClassifyRotation(build(tc.active), ref, configured); got.Label != tc.want {
			t.Fatalf("active=%d: expected %s, got %s", tc.active, tc.want, got.Label)
		}
	}
}

func TestRotationSkipsMalformedDates(t *testing.T) {
	configured := DefaultConfig()
	games := []domain.Game{{ID: "g", PlayLogs: []domain.PlayLog{{ID: "1", Date: "bad-date", Hours: 1}}}}
	health := ClassifyRotation(games, mustDay(t, "2024-06-01"), configured)
	if health.Active != 0 || health.Label != RotationHealthy {
		t.Fatalf("expected malformed dates skipped, got %+v", health)
	}
}
