package analytics

import (
	"math"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// ValueRating bands cost-per-hour into a qualitative label.
type ValueRating string

const (
	ValueExcellent ValueRating = "Excellent"
	ValueGood      ValueRating = "Good"
	ValueFair      ValueRating = "Fair"
	ValuePoor      ValueRating = "Poor"
)

// GameMetrics is the derived per-game view. It is recomputed from the game
// record on every call and never persisted.
type GameMetrics struct {
	GameID         string      `json:"gameId"`
	TotalHours     float64     `json:"totalHours"`
	CostPerHour    float64     `json:"costPerHour"`
	NormalizedCost float64     `json:"normalizedCost"`
	ValueRating    ValueRating `json:"valueRating"`
	BlendScore     float64     `json:"blendScore"`
	ROI            float64     `json:"roi"`
	DaysToComplete *int        `json:"daysToComplete,omitempty"`
}

// CalculateMetrics derives the per-game value metrics.
//
// Division-by-zero policy: a game with zero total hours has CostPerHour 0,
// never NaN or Infinity. Callers gate value displays on TotalHours > 0 so
// an unplayed game is not mistaken for a free one.
func CalculateMetrics(game domain.Game, cfg Config) GameMetrics {
	total := game.TotalHours()
	price := sanitizePrice(game.Price)

	m := GameMetrics{
		GameID:     game.ID,
		TotalHours: total,
	}

	if total > 0 {
		m.CostPerHour = price / total
	}
	if cfg.BaselineCostPerHour > 0 {
		m.NormalizedCost = m.CostPerHour / cfg.BaselineCostPerHour
	}
	m.ValueRating = BandValueRating(m.CostPerHour, cfg)
	m.BlendScore = blendScore(game.Rating, m.CostPerHour, total, cfg)
	m.ROI = roi(game.Rating, price, total, cfg)
	m.DaysToComplete = daysToComplete(game)

	return m
}

// BandValueRating maps a cost-per-hour value onto the qualitative bands.
// Boundary values land in the cheaper band (inclusive upper bounds).
func BandValueRating(costPerHour float64, cfg Config) ValueRating {
	switch {
	case costPerHour <= cfg.ExcellentPerHour:
		return ValueExcellent
	case costPerHour <= cfg.GoodPerHour:
		return ValueGood
	case costPerHour <= cfg.FairPerHour:
		return ValueFair
	default:
		return ValuePoor
	}
}

// blendScore folds the 0-10 rating together with cost-efficiency against
// the baseline cost-per-hour into a single 0-10 sortable number. It is
// monotonic: a higher rating or a lower cost-per-hour never lowers it.
func blendScore(rating, costPerHour, totalHours float64, cfg Config) float64 {
	if rating < 0 {
		rating = 0
	}
	if rating > 10 {
		rating = 10
	}

	efficiency := 0.0
	if totalHours > 0 && costPerHour > 0 {
		efficiency = cfg.BaselineCostPerHour / costPerHour
		if efficiency > cfg.EfficiencyCap {
			efficiency = cfg.EfficiencyCap
		}
	} else if totalHours > 0 {
		// Played and effectively free: best possible efficiency.
		efficiency = cfg.EfficiencyCap
	}

	score := cfg.RatingWeight*rating + cfg.EfficiencyWeight*(efficiency/cfg.EfficiencyCap)*10
	return round2(score)
}

// roi rewards high ratings disproportionately through an exponential curve
// and divides by cost-per-hour. The curve scale is derived from the
// configured calibration point ($70, 15h, rating 9 => 10 by default).
func roi(rating, price, totalHours float64, cfg Config) float64 {
	if totalHours <= 0 {
		return 0
	}
	if rating < 0 {
		rating = 0
	}
	costPerHour := price / totalHours
	if costPerHour < cfg.CostFloorPerHour {
		costPerHour = cfg.CostFloorPerHour
	}
	return round2(cfg.roiScale() * math.Exp(rating/cfg.RatingCurve) / costPerHour)
}

func daysToComplete(game domain.Game) *int {
	if game.Status != domain.StatusCompleted || game.StartDate == "" || game.EndDate == "" {
		return nil
	}
	start, err := timeutil.ParseLocalDate(game.StartDate)
	if err != nil {
		return nil
	}
	end, err := timeutil.ParseLocalDate(game.EndDate)
	if err != nil {
		return nil
	}
	days := timeutil.DaysBetween(start, end)
	if days < 0 {
		return nil
	}
	return &days
}

func sanitizePrice(price float64) float64 {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return price
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
