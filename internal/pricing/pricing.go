package pricing

import "fmt"

// weeksPerMonth is the fixed approximation used to turn a weekly
// schedule into monthly hours.
const weeksPerMonth = 4.2

// HourlyRate derives the imputed labor cost per hour from the fixed
// costs and the work schedule. A schedule with zero hours yields a
// rate of 0, not an error: no working time means no imputed labor cost.
func HourlyRate(cfg Config) float64 {
	var totalFixed float64
	for _, fc := range cfg.FixedCosts {
		totalFixed += fc.MonthlyAmount
	}

	monthlyHours := cfg.Schedule.HoursPerDay * cfg.Schedule.DaysPerWeek * weeksPerMonth
	if monthlyHours <= 0 {
		return 0
	}

	return totalFixed / monthlyHours
}

// FinalPrice computes the suggested sale price of a product using the
// markup-divisor method:
//
//	price = total cost / (1 - (margin% + fee%))
//
// marginPct and feePct are whole percentages (30 means 30%). It fails
// with ErrInvalidMargin when their sum reaches 100%, and with
// ErrInvalidMaterial when a recipe material has a non-positive package
// quantity.
func FinalPrice(p Product, marginPct, feePct, hourlyRate float64) (Result, error) {
	var materialCost float64
	for _, item := range p.Recipe {
		if item.Material.PackageQty <= 0 {
			return Result{}, fmt.Errorf("material %q: %w", item.Material.Name, ErrInvalidMaterial)
		}
		materialCost += (item.Material.PackagePrice / item.Material.PackageQty) * item.QtyUsed
	}

	laborCost := (p.ProductionMinutes / 60.0) * hourlyRate
	totalCost := materialCost + laborCost + p.PackagingCost

	divisor := 1 - (marginPct/100.0 + feePct/100.0)
	if divisor <= 0 {
		return Result{}, ErrInvalidMargin
	}

	salePrice := totalCost / divisor

	return Result{
		SalePrice:    salePrice,
		TotalCost:    totalCost,
		MaterialCost: materialCost,
		LaborCost:    laborCost,
		GrossProfit:  salePrice - totalCost,
	}, nil
}
