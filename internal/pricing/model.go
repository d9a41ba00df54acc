package pricing

// FixedCost is a recurring monthly expense (rent, energy, tools).
type FixedCost struct {
	Description   string
	MonthlyAmount float64
}

// LaborSchedule describes the available working time per month.
// Weeks per month is fixed at 4.2 and is not configurable.
type LaborSchedule struct {
	HoursPerDay float64 `json:"hours_per_day"`
	DaysPerWeek float64 `json:"days_per_week"`
}

// Config holds the fixed costs and work schedule used to derive the
// hourly labor rate. It is loaded once per calculation and never
// mutated by the engine.
type Config struct {
	FixedCosts []FixedCost
	Schedule   LaborSchedule
}

// Material is a purchasable input sold in packages.
// Unit cost is PackagePrice / PackageQty.
type Material struct {
	Name         string
	PackagePrice float64
	PackageQty   float64
}

// RecipeItem binds a material to the quantity consumed by one unit of
// product. Duplicate materials in a recipe simply sum.
type RecipeItem struct {
	Material Material
	QtyUsed  float64
}

// Product represents a single item to be priced. It is transient:
// built per request, never persisted by the engine.
type Product struct {
	Name              string
	ProductionMinutes float64
	PackagingCost     float64
	Recipe            []RecipeItem
}

// Result contains the full output of a final-price calculation.
type Result struct {
	SalePrice    float64 `json:"sale_price"`
	TotalCost    float64 `json:"total_cost"`
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
	GrossProfit  float64 `json:"gross_profit"`
}
