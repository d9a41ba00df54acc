package pricing

import "fmt"

// Fixed seasonality policy: above highDemandIndex prices rise 5%,
// below lowDemandIndex they drop 10%, in between they hold.
const (
	highDemandIndex      = 1.2
	lowDemandIndex       = 0.8
	highDemandAdjustment = 5
	lowDemandAdjustment  = -10
)

// Price-adjustment strategies returned by Seasonality.
const (
	StrategyRaise = "raise price - high demand"
	StrategyLower = "lower price - low demand"
	StrategyHold  = "hold current price"
)

// MonthlySales is one historical demand observation.
type MonthlySales struct {
	Month     int     `json:"month"`
	UnitsSold float64 `json:"units_sold"`
}

// SeasonalityResult describes the demand of a month relative to the
// observed average and the recommended price adjustment.
type SeasonalityResult struct {
	SeasonalIndex  float64 `json:"seasonal_index"`
	MonthlyAverage float64 `json:"monthly_average"`
	MonthUnits     float64 `json:"month_units"`
	AdjustmentPct  float64 `json:"adjustment_pct"`
	Strategy       string  `json:"strategy"`
}

// Seasonality computes the seasonal index of the given month against
// the mean demand of the supplied history and recommends a price
// adjustment under fixed policy thresholds. It fails with
// ErrEmptyInput when the history is empty and ErrMonthNotFound when
// the month has no record. Duplicate months are allowed; the first
// match wins.
func Seasonality(history []MonthlySales, month int) (SeasonalityResult, error) {
	if len(history) == 0 {
		return SeasonalityResult{}, fmt.Errorf("sales history: %w", ErrEmptyInput)
	}

	var total float64
	for _, h := range history {
		total += h.UnitsSold
	}
	average := total / float64(len(history))

	var target *MonthlySales
	for i := range history {
		if history[i].Month == month {
			target = &history[i]
			break
		}
	}
	if target == nil {
		return SeasonalityResult{}, fmt.Errorf("month %d: %w", month, ErrMonthNotFound)
	}

	index := 1.0
	if average > 0 {
		index = target.UnitsSold / average
	}

	adjustment := 0.0
	strategy := StrategyHold
	switch {
	case index > highDemandIndex:
		adjustment = highDemandAdjustment
		strategy = StrategyRaise
	case index < lowDemandIndex:
		adjustment = lowDemandAdjustment
		strategy = StrategyLower
	}

	return SeasonalityResult{
		SeasonalIndex:  index,
		MonthlyAverage: average,
		MonthUnits:     target.UnitsSold,
		AdjustmentPct:  adjustment,
		Strategy:       strategy,
	}, nil
}
