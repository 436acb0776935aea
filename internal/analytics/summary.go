package analytics

import (
	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// UnknownBucket collects games whose grouping field is empty, so every
// non-wishlist game is accounted for in every breakdown.
const UnknownBucket = "Unknown"

// SuperlativePick names a best/worst/most game surfaced in the summary.
type SuperlativePick struct {
	GameID string  `json:"gameId"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// AnalyticsSummary is a whole-library snapshot computed fresh from the
// game collection at call time. There is no incremental update path; it is
// always fully recomputed.
type AnalyticsSummary struct {
	TotalGames   int                       `json:"totalGames"`
	GameCount    int                       `json:"gameCount"` // non-wishlist
	StatusCounts map[domain.GameStatus]int `json:"statusCounts"`

	TotalSpent   float64 `json:"totalSpent"`
	AverageSpent float64 `json:"averageSpent"`
	TotalHours   float64 `json:"totalHours"`
	AverageHours float64 `json:"averageHours"`

	CompletionRate float64 `json:"completionRate"`
	AverageRating  float64 `json:"averageRating"`

	BestValue    *SuperlativePick `json:"bestValue,omitempty"`
	WorstValue   *SuperlativePick `json:"worstValue,omitempty"`
	MostPlayed   *SuperlativePick `json:"mostPlayed,omitempty"`
	HighestRated *SuperlativePick `json:"highestRated,omitempty"`

	SpendingByGenre    map[string]float64 `json:"spendingByGenre"`
	HoursByGenre       map[string]float64 `json:"hoursByGenre"`
	SpendingByPlatform map[string]float64 `json:"spendingByPlatform"`
	SpendingBySource   map[string]float64 `json:"spendingBySource"`
	SpendingByYear     map[string]float64 `json:"spendingByYear"`
}

// CalculateSummary folds the full collection into an AnalyticsSummary.
// Wishlist games count toward TotalGames and StatusCounts but are excluded
// from every financial and time aggregate: they have no sunk cost or time.
// Superlative ties keep the first-encountered game (stable, no re-sort).
func CalculateSummary(games []domain.Game) AnalyticsSummary {
	s := AnalyticsSummary{
		TotalGames:         len(games),
		StatusCounts:       make(map[domain.GameStatus]int),
		SpendingByGenre:    make(map[string]float64),
		HoursByGenre:       make(map[string]float64),
		SpendingByPlatform: make(map[string]float64),
		SpendingBySource:   make(map[string]float64),
		SpendingByYear:     make(map[string]float64),
	}

	ratedCount := 0
	ratingSum := 0.0

	for _, g := range games {
		s.StatusCounts[g.Status]++
		if g.IsWishlist() {
			continue
		}
		s.GameCount++

		price := sanitizePrice(g.Price)
		total := g.TotalHours()

		s.TotalSpent += price
		s.TotalHours += total

		if g.Rating > 0 {
			ratedCount++
			ratingSum += g.Rating
		}

		s.SpendingByGenre[bucketOr(g.Genre)] += price
		s.HoursByGenre[bucketOr(g.Genre)] += total
		s.SpendingByPlatform[bucketOr(g.Platform)] += price
		s.SpendingBySource[bucketOr(g.PurchaseSource)] += price
		s.SpendingByYear[purchaseYear(g)] += price

		updateSuperlatives(&s, g, price, total)
	}

	if s.GameCount > 0 {
		s.AverageSpent = round2(s.TotalSpent / float64(s.GameCount))
		s.AverageHours = round2(s.TotalHours / float64(s.GameCount))
		s.CompletionRate = round2(float64(s.StatusCounts[domain.StatusCompleted]) / float64(s.GameCount))
	}
	if ratedCount > 0 {
		s.AverageRating = round2(ratingSum / float64(ratedCount))
	}

	return s
}

// updateSuperlatives applies strict comparisons so earlier games win ties.
// Value picks require both play time and a real price to avoid degenerate
// zero-division winners.
func updateSuperlatives(s *AnalyticsSummary, g domain.Game, price, total float64) {
	if total > 0 && price > 0 {
		cph := price / total
		if s.BestValue == nil || cph < s.BestValue.Value {
			s.BestValue = &SuperlativePick{GameID: g.ID, Name: g.Name, Value: cph}
		}
		if s.WorstValue == nil || cph > s.WorstValue.Value {
			s.WorstValue = &SuperlativePick{GameID: g.ID, Name: g.Name, Value: cph}
		}
	}
	if total > 0 {
		if s.MostPlayed == nil || total > s.MostPlayed.Value {
			s.MostPlayed = &SuperlativePick{GameID: g.ID, Name: g.Name, Value: total}
		}
	}
	if g.Rating > 0 {
		if s.HighestRated == nil || g.Rating > s.HighestRated.Value {
			s.HighestRated = &SuperlativePick{GameID: g.ID, Name: g.Name, Value: g.Rating}
		}
	}
}

func bucketOr(value string) string {
	if value == "" {
		return UnknownBucket
	}
	return value
}

func purchaseYear(g domain.Game) string {
	if g.DatePurchased == "" {
		return UnknownBucket
	}
	d, err := timeutil.ParseLocalDate(g.DatePurchased)
	if err != nil {
		return UnknownBucket
	}
	return timeutil.YearKey(d)
}
