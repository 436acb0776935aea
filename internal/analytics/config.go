package analytics

import "math"

// Config hoists every heuristic threshold used by the engine so tests can
// override them and so their tunable nature is explicit. All engine
// functions accept a Config; DefaultConfig matches the dashboard's shipped
// behavior.
type Config struct {
	// Value-rating bands in dollars per hour, inclusive upper bounds.
	ExcellentPerHour float64
	GoodPerHour      float64
	FairPerHour      float64

	// BaselineCostPerHour anchors the cost-efficiency half of the blend
	// score: a game at exactly this cost-per-hour is "average" value.
	BaselineCostPerHour float64
	// EfficiencyCap bounds how much a very cheap game can boost the blend
	// score.
	EfficiencyCap float64
	// RatingWeight and EfficiencyWeight split the blend score; they should
	// sum to 1.
	RatingWeight     float64
	EfficiencyWeight float64

	// ROI calibration point: a game at CalibrationPrice dollars,
	// CalibrationHours hours and CalibrationRating out of 10 scores
	// exactly CalibrationROI. The curve scale is derived from these, so
	// the calibration holds by construction.
	CalibrationPrice  float64
	CalibrationHours  float64
	CalibrationRating float64
	CalibrationROI    float64
	// RatingCurve is the divisor in exp(rating/RatingCurve); smaller
	// values reward high ratings more steeply.
	RatingCurve float64
	// CostFloorPerHour bounds the ROI denominator for free or near-free
	// games.
	CostFloorPerHour float64

	// ComparisonDeadband is the relative delta under which a window
	// comparison reports flat instead of up/down.
	ComparisonDeadband float64

	// Rotation recency cutoffs in days.
	ActiveDays  int
	CoolingDays int
	DormantDays int

	// Hidden-gem / regret screening.
	GemMaxPrice     float64
	GemMinHours     float64
	GemMinRating    float64
	RegretMinPrice  float64
	RegretMaxHours  float64
	RegretMaxRating float64
	InsightTopN     int
	// CompletionBaseRate seeds the completion-probability score before
	// factor impacts are applied.
	CompletionBaseRate float64
}

// DefaultConfig returns the shipped thresholds.
func DefaultConfig() Config {
	return Config{
		ExcellentPerHour: 1,
		GoodPerHour:      3,
		FairPerHour:      5,

		BaselineCostPerHour: 3.50,
		EfficiencyCap:       2,
		RatingWeight:        0.6,
		EfficiencyWeight:    0.4,

		CalibrationPrice:  70,
		CalibrationHours:  15,
		CalibrationRating: 9,
		CalibrationROI:    10,
		RatingCurve:       2.5,
		CostFloorPerHour:  0.25,

		ComparisonDeadband: 0.05,

		ActiveDays:  14,
		CoolingDays: 30,
		DormantDays: 60,

		GemMaxPrice:        20,
		GemMinHours:        10,
		GemMinRating:       7,
		RegretMinPrice:     40,
		RegretMaxHours:     5,
		RegretMaxRating:    6,
		InsightTopN:        5,
		CompletionBaseRate: 50,
	}
}

// roiScale derives the exponential curve scale from the calibration point,
// so CalculateMetrics hits it exactly regardless of how RatingCurve is
// tuned.
func (c Config) roiScale() float64 {
	if c.CalibrationHours <= 0 || c.CalibrationPrice <= 0 {
		return 0
	}
	calCost := c.CalibrationPrice / c.CalibrationHours
	return c.CalibrationROI * calCost / math.Exp(c.CalibrationRating/c.RatingCurve)
}
