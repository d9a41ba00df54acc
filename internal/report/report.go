// Package report aggregates historical order records into monthly
// reports, trend analysis, near-term projections and per-category
// profitability rankings. Every function is a pure computation over a
// caller-owned snapshot of orders; the reference instant for trailing
// windows is always an explicit argument.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrNoData means no order falls in the requested period.
	ErrNoData = errors.New("no orders found for the period")

	// ErrInsufficientData means too few orders exist for a meaningful
	// projection.
	ErrInsufficientData = errors.New("not enough orders for a projection")
)

// DefaultCategory is assigned to orders recorded without a category.
const DefaultCategory = "uncategorized"

// The projection baseline is a trailing window of three 30-day
// months.
const (
	projectionBaselineDays   = 90
	projectionMinOrders      = 3
	projectionBaselineMonths = 3
	topClientsLimit          = 5
)

// Order is one historical priced order.
type Order struct {
	ID         string    `json:"id"`
	Client     string    `json:"client"`
	Category   string    `json:"category"`
	FinalPrice float64   `json:"final_price"`
	TotalCost  float64   `json:"total_cost"`
	CreatedAt  time.Time `json:"created_at"`
}

// category returns the order category, falling back to
// DefaultCategory when none was recorded.
func (o Order) category() string {
	if o.Category == "" {
		return DefaultCategory
	}
	return o.Category
}

// CategoryBreakdown accumulates the orders of one category inside a
// monthly report.
type CategoryBreakdown struct {
	Category string  `json:"category"`
	Orders   int     `json:"orders"`
	Revenue  float64 `json:"revenue"`
	Cost     float64 `json:"cost"`
}

// ClientRevenue is one entry of the top-client ranking.
type ClientRevenue struct {
	Client  string  `json:"client"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// MonthlyReport is the aggregate view of a single calendar month.
type MonthlyReport struct {
	Period       string              `json:"period"`
	Orders       int                 `json:"orders"`
	Revenue      float64             `json:"revenue"`
	Cost         float64             `json:"cost"`
	Profit       float64             `json:"profit"`
	AvgTicket    float64             `json:"avg_ticket"`
	AvgMarginPct float64             `json:"avg_margin_pct"`
	Categories   []CategoryBreakdown `json:"categories"`
	TopClients   []ClientRevenue     `json:"top_clients"`
}

// Monthly aggregates the orders of the given calendar month. It fails
// with ErrNoData when no order falls in that month. Category and
// client groupings preserve first-encounter order; the top-client
// ranking breaks revenue ties by encounter order.
func Monthly(orders []Order, year int, month time.Month) (MonthlyReport, error) {
	var selected []Order
	for _, o := range orders {
		if o.CreatedAt.Year() == year && o.CreatedAt.Month() == month {
			selected = append(selected, o)
		}
	}
	if len(selected) == 0 {
		return MonthlyReport{}, fmt.Errorf("%04d-%02d: %w", year, int(month), ErrNoData)
	}

	rep := MonthlyReport{
		Period: fmt.Sprintf("%02d/%04d", int(month), year),
		Orders: len(selected),
	}
	for _, o := range selected {
		rep.Revenue += o.FinalPrice
		rep.Cost += o.TotalCost
	}
	rep.Profit = rep.Revenue - rep.Cost
	rep.AvgTicket = rep.Revenue / float64(rep.Orders)
	if rep.Revenue > 0 {
		rep.AvgMarginPct = rep.Profit / rep.Revenue * 100
	}

	byCategory := map[string]int{}
	for _, o := range selected {
		cat := o.category()
		idx, ok := byCategory[cat]
		if !ok {
			idx = len(rep.Categories)
			byCategory[cat] = idx
			rep.Categories = append(rep.Categories, CategoryBreakdown{Category: cat})
		}
		rep.Categories[idx].Orders++
		rep.Categories[idx].Revenue += o.FinalPrice
		rep.Categories[idx].Cost += o.TotalCost
	}

	byClient := map[string]int{}
	var clients []ClientRevenue
	for _, o := range selected {
		idx, ok := byClient[o.Client]
		if !ok {
			idx = len(clients)
			byClient[o.Client] = idx
			clients = append(clients, ClientRevenue{Client: o.Client})
		}
		clients[idx].Orders++
		clients[idx].Revenue += o.FinalPrice
	}
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].Revenue > clients[j].Revenue
	})
	if len(clients) > topClientsLimit {
		clients = clients[:topClientsLimit]
	}
	rep.TopClients = clients

	return rep, nil
}

// MonthBucket accumulates the orders of one calendar month inside a
// trend analysis.
type MonthBucket struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// TrendReport compares the earliest and latest populated months of a
// trailing window.
type TrendReport struct {
	Months           []MonthBucket `json:"months"`
	RevenueGrowthPct float64       `json:"revenue_growth_pct"`
	OrderGrowthPct   float64       `json:"order_growth_pct"`
	MonthsAnalyzed   int           `json:"months_analyzed"`
}

// Trends groups the orders of the trailing window (months x 30 days
// before now) by calendar month and computes revenue and order-count
// growth between the earliest and latest populated month. Fewer than
// two populated months yields zero growth, not an error. Buckets keep
// first-encounter order.
func Trends(orders []Order, months int, now time.Time) TrendReport {
	cutoff := now.AddDate(0, 0, -months*30)

	byMonth := map[string]int{}
	var buckets []MonthBucket
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		key := o.CreatedAt.Format("2006-01")
		idx, ok := byMonth[key]
		if !ok {
			idx = len(buckets)
			byMonth[key] = idx
			buckets = append(buckets, MonthBucket{Month: key})
		}
		buckets[idx].Orders++
		buckets[idx].Revenue += o.FinalPrice
		buckets[idx].Cost += o.TotalCost
		buckets[idx].Profit += o.FinalPrice - o.TotalCost
	}

	rep := TrendReport{Months: buckets, MonthsAnalyzed: len(buckets)}
	if len(buckets) < 2 {
		return rep
	}

	keys := make([]string, 0, len(buckets))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	first := buckets[byMonth[keys[0]]]
	last := buckets[byMonth[keys[len(keys)-1]]]

	if first.Revenue > 0 {
		rep.RevenueGrowthPct = (last.Revenue - first.Revenue) / first.Revenue * 100
	}
	if first.Orders > 0 {
		rep.OrderGrowthPct = float64(last.Orders-first.Orders) / float64(first.Orders) * 100
	}

	return rep
}

// ProjectionEntry is one projected future month.
type ProjectionEntry struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
}

// ProjectionReport repeats the flat monthly average of the trailing
// 90-day baseline for each future month. It applies no trend slope or
// seasonality; the projection is a deliberately simple extrapolation.
type ProjectionReport struct {
	AvgOrdersPerMonth float64           `json:"avg_orders_per_month"`
	AvgRevenue        float64           `json:"avg_revenue"`
	AvgCost           float64           `json:"avg_cost"`
	AvgProfit         float64           `json:"avg_profit"`
	Entries           []ProjectionEntry `json:"entries"`
}

// Projection averages the orders of the trailing 90 days into a flat
// per-month baseline and repeats it for the next horizonMonths. It
// fails with ErrInsufficientData when fewer than 3 orders fall in the
// baseline window.
func Projection(orders []Order, horizonMonths int, now time.Time) (ProjectionReport, error) {
	cutoff := now.AddDate(0, 0, -projectionBaselineDays)

	var recent []Order
	for _, o := range orders {
		if !o.CreatedAt.Before(cutoff) {
			recent = append(recent, o)
		}
	}
	if len(recent) < projectionMinOrders {
		return ProjectionReport{}, fmt.Errorf("%d orders in the last %d days: %w",
			len(recent), projectionBaselineDays, ErrInsufficientData)
	}

	rep := ProjectionReport{
		AvgOrdersPerMonth: float64(len(recent)) / projectionBaselineMonths,
	}
	for _, o := range recent {
		rep.AvgRevenue += o.FinalPrice
		rep.AvgCost += o.TotalCost
	}
	rep.AvgRevenue /= projectionBaselineMonths
	rep.AvgCost /= projectionBaselineMonths
	rep.AvgProfit = rep.AvgRevenue - rep.AvgCost

	for i := 1; i <= horizonMonths; i++ {
		future := now.AddDate(0, 0, 30*i)
		rep.Entries = append(rep.Entries, ProjectionEntry{
			Month:   future.Format("01/2006"),
			Orders:  int(rep.AvgOrdersPerMonth),
			Revenue: rep.AvgRevenue,
			Cost:    rep.AvgCost,
			Profit:  rep.AvgProfit,
		})
	}

	return rep, nil
}

// CategoryProfit accumulates the all-time results of one category.
type CategoryProfit struct {
	Category  string  `json:"category"`
	Orders    int     `json:"orders"`
	Revenue   float64 `json:"revenue"`
	Cost      float64 `json:"cost"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"margin_pct"`
}

// ProfitabilityReport ranks categories by margin, best first.
type ProfitabilityReport struct {
	Categories []CategoryProfit `json:"categories"`
	Best       CategoryProfit   `json:"best"`
	Worst      CategoryProfit   `json:"worst"`
}

// CategoryProfitability groups all orders (no time filter) by
// category and ranks them descending by margin. Margin ties keep
// first-encounter order. Best and Worst are the zero value when no
// orders exist.
func CategoryProfitability(orders []Order) ProfitabilityReport {
	byCategory := map[string]int{}
	var categories []CategoryProfit
	for _, o := range orders {
		cat := o.category()
		idx, ok := byCategory[cat]
		if !ok {
			idx = len(categories)
			byCategory[cat] = idx
			categories = append(categories, CategoryProfit{Category: cat})
		}
		categories[idx].Orders++
		categories[idx].Revenue += o.FinalPrice
		categories[idx].Cost += o.TotalCost
		categories[idx].Profit += o.FinalPrice - o.TotalCost
	}

	for i := range categories {
		if categories[i].Revenue > 0 {
			categories[i].MarginPct = categories[i].Profit / categories[i].Revenue * 100
		}
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].MarginPct > categories[j].MarginPct
	})

	rep := ProfitabilityReport{Categories: categories}
	if len(categories) > 0 {
		rep.Best = categories[0]
		rep.Worst = categories[len(categories)-1]
	}
	return rep
}
