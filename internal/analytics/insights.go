package analytics

import (
	"sort"
	"time"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// Personality archetypes. archetypePriority below is the documented,
// deterministic tiebreak order.
type Personality string

const (
	PersonalityCompletionist Personality = "Completionist"
	PersonalityDeepDiver     Personality = "Deep Diver"
	PersonalitySampler       Personality = "Sampler"
	PersonalityBacklogHoard  Personality = "Backlog Hoarder"
	PersonalitySpeedrunner   Personality = "Speedrunner"
	PersonalityExplorer      Personality = "Explorer"
	PersonalityBalanced      Personality = "Balanced"
)

// archetypePriority breaks score ties: earlier entries win. The order is
// arbitrary but fixed so repeated calls agree.
var archetypePriority = []Personality{
	PersonalityCompletionist,
	PersonalityDeepDiver,
	PersonalitySampler,
	PersonalityBacklogHoard,
	PersonalitySpeedrunner,
	PersonalityExplorer,
	PersonalityBalanced,
}

// PersonalityResult carries the winning archetype and the full score map
// so the dashboard can chart the spread.
type PersonalityResult struct {
	Type   Personality             `json:"type"`
	Scores map[Personality]float64 `json:"scores"`
}

// ClassifyPersonality scores each archetype from aggregate library shape
// and returns the highest. Degenerate input classifies as Balanced.
func ClassifyPersonality(games []domain.Game) PersonalityResult {
	scores := map[Personality]float64{
		PersonalityBalanced: 30, // baseline so an unremarkable library lands here
	}
	result := PersonalityResult{Type: PersonalityBalanced, Scores: scores}

	owned := 0
	completed := 0
	notStarted := 0
	totalHours := 0.0
	playedGames := 0
	genres := make(map[string]struct{})
	fastClears := 0

	for _, g := range games {
		if g.IsWishlist() {
			continue
		}
		owned++
		if g.Status == domain.StatusCompleted {
			completed++
			if d := daysToComplete(g); d != nil && *d <= 14 {
				fastClears++
			}
		}
		if g.Status == domain.StatusNotStarted {
			notStarted++
		}
		if total := g.TotalHours(); total > 0 {
			totalHours += total
			playedGames++
		}
		if g.Genre != "" {
			genres[g.Genre] = struct{}{}
		}
	}

	if owned == 0 {
		return result
	}

	completionRate := float64(completed) / float64(owned)
	backlogRate := float64(notStarted) / float64(owned)
	avgHours := 0.0
	if playedGames > 0 {
		avgHours = totalHours / float64(playedGames)
	}
	genreDiversity := float64(len(genres)) / float64(owned)

	scores[PersonalityCompletionist] = round2(completionRate * 100)
	scores[PersonalityDeepDiver] = round2(clamp(avgHours*2, 0, 100))
	scores[PersonalitySampler] = samplerScore(playedGames, avgHours)
	scores[PersonalityBacklogHoard] = round2(backlogRate * 90)
	scores[PersonalitySpeedrunner] = speedrunnerScore(completed, fastClears)
	scores[PersonalityExplorer] = round2(clamp(genreDiversity*120, 0, 100))

	best := PersonalityBalanced
	bestScore := -1.0
	for _, p := range archetypePriority {
		if score := scores[p]; score > bestScore {
			best = p
			bestScore = score
		}
	}
	result.Type = best
	return result
}

func samplerScore(playedGames int, avgHours float64) float64 {
	if playedGames < 5 || avgHours >= 8 {
		return 0
	}
	return round2(clamp(float64(playedGames)*8-avgHours*5, 0, 100))
}

func speedrunnerScore(completed, fastClears int) float64 {
	if completed == 0 {
		return 0
	}
	return round2(float64(fastClears) / float64(completed) * 80)
}

// CompletionFactor is one signed contribution to a completion-probability
// score.
type CompletionFactor struct {
	Name   string  `json:"name"`
	Impact float64 `json:"impact"`
}

// CompletionProbability is a 0-100 likelihood that a game in progress gets
// finished. Base plus the factor impacts always sum to Score before
// clamping.
type CompletionProbability struct {
	GameID  string             `json:"gameId"`
	Score   float64            `json:"score"`
	Base    float64            `json:"base"`
	Factors []CompletionFactor `json:"factors"`
}

// CalculateCompletionProbability scores one game against the rest of the
// library as context, as of ref.
func CalculateCompletionProbability(game domain.Game, games []domain.Game, ref time.Time, cfg Config) CompletionProbability {
	result := CompletionProbability{
		GameID:  game.ID,
		Base:    cfg.CompletionBaseRate,
		Factors: []CompletionFactor{},
	}

	if game.Status == domain.StatusCompleted {
		result.Score = 100
		return result
	}
	if game.Status == domain.StatusAbandoned {
		result.Score = 0
		return result
	}

	result.Factors = append(result.Factors,
		genreHistoryFactor(game, games),
		recencyFactor(game, ref, cfg),
		investmentFactor(game, games),
	)

	score := result.Base
	for _, f := range result.Factors {
		score += f.Impact
	}
	result.Score = clamp(round2(score), 0, 100)
	return result
}

// genreHistoryFactor rewards genres the player historically finishes and
// penalizes genres they abandon.
func genreHistoryFactor(game domain.Game, games []domain.Game) CompletionFactor {
	factor := CompletionFactor{Name: "genre history"}
	if game.Genre == "" {
		return factor
	}
	finished, resolved := 0, 0
	for _, g := range games {
		if g.ID == game.ID || g.Genre != game.Genre {
			continue
		}
		switch g.Status {
		case domain.StatusCompleted:
			finished++
			resolved++
		case domain.StatusAbandoned:
			resolved++
		}
	}
	if resolved == 0 {
		return factor
	}
	rate := float64(finished) / float64(resolved)
	factor.Impact = round2((rate - 0.5) * 40) // +/-20 around an even record
	return factor
}

// recencyFactor rewards games still in rotation and penalizes ones going
// cold.
func recencyFactor(game domain.Game, ref time.Time, cfg Config) CompletionFactor {
	factor := CompletionFactor{Name: "recency"}
	last, ok := lastPlayed(game)
	if !ok {
		factor.Impact = -10
		return factor
	}
	gap := timeutil.DaysBetween(last, timeutil.StartOfDay(ref))
	switch {
	case gap <= cfg.ActiveDays:
		factor.Impact = 15
	case gap <= cfg.CoolingDays:
		factor.Impact = 0
	case gap <= cfg.DormantDays:
		factor.Impact = -10
	default:
		factor.Impact = -15
	}
	return factor
}

// investmentFactor compares hours sunk against the genre's average abandon
// point: once past where similar games were dropped, finishing gets more
// likely.
func investmentFactor(game domain.Game, games []domain.Game) CompletionFactor {
	factor := CompletionFactor{Name: "investment"}
	total := game.TotalHours()
	if total <= 0 {
		return factor
	}

	abandonSum, abandoned := 0.0, 0
	for _, g := range games {
		if g.ID == game.ID || g.Status != domain.StatusAbandoned {
			continue
		}
		if game.Genre != "" && g.Genre != game.Genre {
			continue
		}
		abandonSum += g.TotalHours()
		abandoned++
	}
	if abandoned == 0 {
		factor.Impact = 5 // hours invested with no abandon history is a mild positive
		return factor
	}
	avgAbandon := abandonSum / float64(abandoned)
	if total > avgAbandon {
		factor.Impact = 15
	} else {
		factor.Impact = -5
	}
	return factor
}

// GameScore is a ranked insight pick.
type GameScore struct {
	GameID string  `json:"gameId"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
}

// HiddenGems ranks cheap, well-loved, heavily played games: top N by
// score. These are ranking heuristics, not hard thresholds beyond the
// screening bounds in cfg.
func HiddenGems(games []domain.Game, cfg Config) []GameScore {
	var picks []GameScore
	for _, g := range games {
		if g.IsWishlist() {
			continue
		}
		total := g.TotalHours()
		price := sanitizePrice(g.Price)
		if price > cfg.GemMaxPrice || total < cfg.GemMinHours || g.Rating < cfg.GemMinRating {
			continue
		}
		denominator := price
		if denominator < 1 {
			denominator = 1
		}
		picks = append(picks, GameScore{
			GameID: g.ID,
			Name:   g.Name,
			Score:  round2(g.Rating * total / denominator),
		})
	}
	return topN(picks, cfg.InsightTopN)
}

// RegretPurchases ranks expensive, barely played, poorly rated games.
// Unrated games still qualify: no rating on a pricey unplayed game is its
// own signal.
func RegretPurchases(games []domain.Game, cfg Config) []GameScore {
	var picks []GameScore
	for _, g := range games {
		if g.IsWishlist() {
			continue
		}
		total := g.TotalHours()
		price := sanitizePrice(g.Price)
		if price < cfg.RegretMinPrice || total > cfg.RegretMaxHours || g.Rating > cfg.RegretMaxRating {
			continue
		}
		picks = append(picks, GameScore{
			GameID: g.ID,
			Name:   g.Name,
			Score:  round2(price / (total + 1) * (10 - g.Rating) / 10),
		})
	}
	return topN(picks, cfg.InsightTopN)
}

func topN(picks []GameScore, n int) []GameScore {
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].Score > picks[j].Score })
	if n > 0 && len(picks) > n {
		picks = picks[:n]
	}
	return picks
}

// RotationLabel classifies the current play rotation.
type RotationLabel string

const (
	RotationObsessed    RotationLabel = "Obsessed"
	RotationFocused     RotationLabel = "Focused"
	RotationHealthy     RotationLabel = "Healthy"
	RotationJuggling    RotationLabel = "Juggling"
	RotationOverwhelmed RotationLabel = "Overwhelmed"
)

// RotationHealth summarizes how many games are actively rotating versus
// cooling off.
type RotationHealth struct {
	Label   RotationLabel `json:"label"`
	Active  int           `json:"active"`
	Cooling int           `json:"cooling"`
	Dormant int           `json:"dormant"`
}

// ClassifyRotation buckets games by days since last session as of ref.
// Games whose logs are malformed or missing simply fall out of every
// bucket; a heuristic should degrade, not crash. No activity at all is
// reported as Healthy, the neutral default.
func ClassifyRotation(games []domain.Game, ref time.Time, cfg Config) RotationHealth {
	health := RotationHealth{Label: RotationHealthy}
	refDay := timeutil.StartOfDay(ref)
	for _, g := range games {
		last, ok := lastPlayed(g)
		if !ok {
			continue
		}
		gap := timeutil.DaysBetween(last, refDay)
		switch {
		case gap < 0:
			// future-dated logs are ignored here
		case gap <= cfg.ActiveDays:
			health.Active++
		case gap <= cfg.DormantDays && gap >= cfg.CoolingDays:
			health.Cooling++
		case gap > cfg.DormantDays:
			health.Dormant++
		}
	}

	switch {
	case health.Active == 0:
		health.Label = RotationHealthy
	case health.Active == 1:
		health.Label = RotationObsessed
	case health.Active == 2:
		health.Label = RotationFocused
	case health.Active <= 4:
		health.Label = RotationHealthy
	case health.Active <= 7:
		health.Label = RotationJuggling
	default:
		health.Label = RotationOverwhelmed
	}
	return health
}

// lastPlayed finds the most recent parseable session date with positive
// hours. Insight functions tolerate malformed dates by skipping them.
func lastPlayed(g domain.Game) (time.Time, bool) {
	var last time.Time
	found := false
	for _, pl := range g.PlayLogs {
		if pl.Hours <= 0 {
			continue
		}
		day, err := timeutil.ParseLocalDate(pl.Date)
		if err != nil {
			continue
		}
		if !found || day.After(last) {
			last = day
			found = true
		}
	}
	return last, found
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
