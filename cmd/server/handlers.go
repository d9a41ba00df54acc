package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CaioBPQ/precificacao/internal/pricing"
	"github.com/CaioBPQ/precificacao/internal/report"
	"github.com/CaioBPQ/precificacao/internal/store"
)

type recipeItemRequest struct {
	MaterialID int64   `json:"material_id"`
	QtyUsed    float64 `json:"qty_used"`
}

type priceRequest struct {
	Name              string              `json:"name"`
	ProductionMinutes float64             `json:"production_minutes"`
	PackagingCost     float64             `json:"packaging_cost"`
	MarginPct         float64             `json:"margin_pct"`
	FeePct            float64             `json:"fee_pct"`
	Recipe            []recipeItemRequest `json:"recipe"`
}

func (s *server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := requireNonNegative(req.ProductionMinutes, "production_minutes"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireNonNegative(req.PackagingCost, "packaging_cost"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	product := pricing.Product{
		Name:              req.Name,
		ProductionMinutes: req.ProductionMinutes,
		PackagingCost:     req.PackagingCost,
	}
	for _, item := range req.Recipe {
		material, err := s.store.GetMaterial(item.MaterialID)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("material %d not found", item.MaterialID))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load material")
			return
		}
		product.Recipe = append(product.Recipe, pricing.RecipeItem{
			Material: material.Material(),
			QtyUsed:  item.QtyUsed,
		})
	}

	cfg, err := s.store.PricingConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load pricing config")
		return
	}

	result, err := pricing.FinalPrice(product, req.MarginPct, req.FeePct, pricing.HourlyRate(cfg))
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type competitiveRequest struct {
	BaseCost         float64   `json:"base_cost"`
	CompetitorPrices []float64 `json:"competitor_prices"`
	Positioning      string    `json:"positioning"`
}

func (s *server) handleCompetitive(w http.ResponseWriter, r *http.Request) {
	var req competitiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	pos := pricing.Positioning(req.Positioning)
	if req.Positioning == "" {
		pos = pricing.PositioningMedium
	}
	switch pos {
	case pricing.PositioningLow, pricing.PositioningMedium, pricing.PositioningHigh:
	default:
		writeError(w, http.StatusBadRequest, "positioning must be low, medium or high")
		return
	}

	result, err := pricing.Competitive(req.BaseCost, req.CompetitorPrices, pos)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type breakEvenRequest struct {
	FixedMonthly     float64 `json:"fixed_monthly"`
	UnitVariableCost float64 `json:"unit_variable_cost"`
	UnitPrice        float64 `json:"unit_price"`
}

func (s *server) handleBreakEven(w http.ResponseWriter, r *http.Request) {
	var req breakEvenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	result, err := pricing.BreakEven(req.FixedMonthly, req.UnitVariableCost, req.UnitPrice)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type scenariosRequest struct {
	BaseCost float64   `json:"base_cost"`
	Margins  []float64 `json:"margins"`
}

func (s *server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	var req scenariosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	writeJSON(w, http.StatusOK, pricing.SimulateScenarios(req.BaseCost, req.Margins))
}

type discountRequest struct {
	TotalCost     float64  `json:"total_cost"`
	OriginalPrice float64  `json:"original_price"`
	MinMarginPct  *float64 `json:"min_margin_pct"`
}

func (s *server) handleDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	minMargin := float64(pricing.DefaultMinMarginPct)
	if req.MinMarginPct != nil {
		minMargin = *req.MinMarginPct
	}

	writeJSON(w, http.StatusOK, pricing.MaxDiscount(req.TotalCost, req.OriginalPrice, minMargin))
}

type seasonalityRequest struct {
	History []pricing.MonthlySales `json:"history"`
	Month   int                    `json:"month"`
}

func (s *server) handleSeasonality(w http.ResponseWriter, r *http.Request) {
	var req seasonalityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	result, err := pricing.Seasonality(req.History, req.Month)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "year must be a positive integer")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	orders, err := s.store.ListOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	rep, err := report.Monthly(orders, year, time.Month(month))
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *server) handleTrendsReport(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonthsParam(r.URL.Query().Get("months"), 6)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.store.ListOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, report.Trends(orders, months, s.now()))
}

func (s *server) handleProjectionReport(w http.ResponseWriter, r *http.Request) {
	months, err := parseMonthsParam(r.URL.Query().Get("months"), 3)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.store.ListOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	rep, err := report.Projection(orders, months, s.now())
	if err != nil {
		writeCoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}

	writeJSON(w, http.StatusOK, report.CategoryProfitability(orders))
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load materials")
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

type materialRequest struct {
	Name         string  `json:"name"`
	PackagePrice float64 `json:"package_price"`
	PackageQty   float64 `json:"package_qty"`
	Notes        string  `json:"notes"`
	Active       *bool   `json:"active"`
}

func (req materialRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if req.PackagePrice <= 0 {
		return fmt.Errorf("package_price must be greater than 0")
	}
	if req.PackageQty <= 0 {
		return fmt.Errorf("package_qty must be greater than 0")
	}
	return nil
}

func (s *server) handleMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	var req materialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.CreateMaterial(strings.TrimSpace(req.Name), req.PackagePrice, req.PackageQty, strings.TrimSpace(req.Notes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create material")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *server) handleMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	var req materialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	found, err := s.store.UpdateMaterial(store.MaterialRecord{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		PackagePrice: req.PackagePrice,
		PackageQty:   req.PackageQty,
		Notes:        strings.TrimSpace(req.Notes),
		Active:       active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update material")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "material not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleFixedCostsList(w http.ResponseWriter, r *http.Request) {
	costs, err := s.store.ListFixedCosts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load fixed costs")
		return
	}
	writeJSON(w, http.StatusOK, costs)
}

type fixedCostRequest struct {
	Description   string  `json:"description"`
	MonthlyAmount float64 `json:"monthly_amount"`
}

func (s *server) handleFixedCostsCreate(w http.ResponseWriter, r *http.Request) {
	var req fixedCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	if err := requireNonNegative(req.MonthlyAmount, "monthly_amount"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.CreateFixedCost(strings.TrimSpace(req.Description), req.MonthlyAmount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create fixed cost")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *server) handleScheduleGet(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.store.Schedule()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (s *server) handleScheduleUpdate(w http.ResponseWriter, r *http.Request) {
	var schedule pricing.LaborSchedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := requireNonNegative(schedule.HoursPerDay, "hours_per_day"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireNonNegative(schedule.DaysPerWeek, "days_per_week"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateSchedule(schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update schedule")
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

func (s *server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type orderRequest struct {
	Client     string  `json:"client"`
	Category   string  `json:"category"`
	FinalPrice float64 `json:"final_price"`
	TotalCost  float64 `json:"total_cost"`
	CreatedAt  string  `json:"created_at"`
}

func (s *server) handleOrdersCreate(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Client) == "" {
		writeError(w, http.StatusBadRequest, "client is required")
		return
	}
	if err := requireNonNegative(req.FinalPrice, "final_price"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := requireNonNegative(req.TotalCost, "total_cost"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	createdAt := s.now()
	if req.CreatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.CreatedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "created_at must be an RFC 3339 timestamp")
			return
		}
		createdAt = parsed
	}

	id, err := s.store.CreateOrder(strings.TrimSpace(req.Client), strings.TrimSpace(req.Category), req.FinalPrice, req.TotalCost, createdAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func requireNonNegative(value float64, field string) error {
	if value < 0 {
		return fmt.Errorf("%s must be greater than or equal to 0", field)
	}
	return nil
}

func parseMonthsParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 {
		return 0, fmt.Errorf("months must be a positive integer")
	}
	return months, nil
}
