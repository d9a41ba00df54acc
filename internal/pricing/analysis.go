package pricing

import (
	"fmt"
	"math"
)

// Positioning selects how a competitive price relates to the
// competitor sample.
type Positioning string

const (
	PositioningLow    Positioning = "low"
	PositioningMedium Positioning = "medium"
	PositioningHigh   Positioning = "high"
)

// Viability labels returned by Competitive.
const (
	ViabilityViable    = "viable"
	ViabilityCaution   = "caution"
	ViabilityNotViable = "not viable"
)

// CompetitiveResult is the outcome of a competitor-based price
// suggestion.
type CompetitiveResult struct {
	SuggestedPrice float64 `json:"suggested_price"`
	CompetitorMean float64 `json:"competitor_mean"`
	CompetitorMin  float64 `json:"competitor_min"`
	CompetitorMax  float64 `json:"competitor_max"`
	RealMarginPct  float64 `json:"real_margin_pct"`
	Viability      string  `json:"viability"`
}

// Competitive suggests a price from a non-empty sample of competitor
// prices. Low positioning undercuts the cheapest competitor by 5%,
// high sits 5% above the most expensive, medium takes the mean.
// The real margin over baseCost classifies viability: above 10% is
// viable, between 0 and 10% warrants caution, at or below 0 the price
// does not cover costs.
func Competitive(baseCost float64, competitorPrices []float64, pos Positioning) (CompetitiveResult, error) {
	if len(competitorPrices) == 0 {
		return CompetitiveResult{}, fmt.Errorf("competitor prices: %w", ErrEmptyInput)
	}

	var sum float64
	min := competitorPrices[0]
	max := competitorPrices[0]
	for _, p := range competitorPrices {
		sum += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	mean := sum / float64(len(competitorPrices))

	var suggested float64
	switch pos {
	case PositioningLow:
		suggested = min * 0.95
	case PositioningHigh:
		suggested = max * 1.05
	default:
		suggested = mean
	}

	var realMargin float64
	if baseCost > 0 {
		realMargin = (suggested - baseCost) / baseCost * 100
	}

	viability := ViabilityNotViable
	switch {
	case realMargin > 10:
		viability = ViabilityViable
	case realMargin > 0:
		viability = ViabilityCaution
	}

	return CompetitiveResult{
		SuggestedPrice: suggested,
		CompetitorMean: mean,
		CompetitorMin:  min,
		CompetitorMax:  max,
		RealMarginPct:  realMargin,
		Viability:      viability,
	}, nil
}

// BreakEvenResult describes the volume at which contribution margin
// covers the monthly fixed costs.
type BreakEvenResult struct {
	Units                 int     `json:"units"`
	Revenue               float64 `json:"revenue"`
	ContributionMargin    float64 `json:"contribution_margin"`
	ContributionMarginPct float64 `json:"contribution_margin_pct"`
}

// BreakEven computes the break-even volume for a price/cost pair. The
// sale price must exceed the unit variable cost; otherwise losses grow
// with volume and no break-even exists (ErrInvalidPricing).
func BreakEven(fixedMonthly, unitVariableCost, unitPrice float64) (BreakEvenResult, error) {
	if unitPrice <= unitVariableCost {
		return BreakEvenResult{}, ErrInvalidPricing
	}

	contribution := unitPrice - unitVariableCost
	units := int(math.Ceil(fixedMonthly / contribution))

	return BreakEvenResult{
		Units:                 units,
		Revenue:               float64(units) * unitPrice,
		ContributionMargin:    contribution,
		ContributionMarginPct: contribution / unitPrice * 100,
	}, nil
}

// Scenario is one entry of a margin sweep. ROIPct mirrors the margin
// input, as the whole cost base is treated as the investment.
type Scenario struct {
	MarginPct  float64 `json:"margin_pct"`
	Price      float64 `json:"price"`
	UnitProfit float64 `json:"unit_profit"`
	ROIPct     float64 `json:"roi_pct"`
}

// SimulateScenarios sweeps the given margin percentages over a cost
// base using additive markup. Output order matches input order; no
// deduplication or sorting is applied.
func SimulateScenarios(baseCost float64, marginPcts []float64) []Scenario {
	scenarios := make([]Scenario, 0, len(marginPcts))
	for _, m := range marginPcts {
		price := baseCost * (1 + m/100)
		scenarios = append(scenarios, Scenario{
			MarginPct:  m,
			Price:      price,
			UnitProfit: price - baseCost,
			ROIPct:     m,
		})
	}
	return scenarios
}

// DiscountResult describes the deepest discount that still preserves
// the minimum margin.
type DiscountResult struct {
	FloorPrice     float64 `json:"floor_price"`
	MaxDiscount    float64 `json:"max_discount"`
	MaxDiscountPct float64 `json:"max_discount_pct"`
	MinMarginPct   float64 `json:"min_margin_pct"`
}

// DefaultMinMarginPct is the minimum margin assumed when the caller
// does not supply one.
const DefaultMinMarginPct = 10

// MaxDiscount computes the largest discount on originalPrice that
// keeps at least minMarginPct of margin over totalCost. A price
// already below the floor yields a zero discount, never a negative
// one.
func MaxDiscount(totalCost, originalPrice, minMarginPct float64) DiscountResult {
	floor := totalCost * (1 + minMarginPct/100)
	value := math.Max(0, originalPrice-floor)

	var pct float64
	if originalPrice > 0 {
		pct = math.Max(0, value/originalPrice*100)
	}

	return DiscountResult{
		FloorPrice:     floor,
		MaxDiscount:    value,
		MaxDiscountPct: pct,
		MinMarginPct:   minMarginPct,
	}
}
