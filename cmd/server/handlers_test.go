package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/CaioBPQ/precificacao/internal/pricing"
	"github.com/CaioBPQ/precificacao/internal/report"
	"github.com/CaioBPQ/precificacao/internal/store"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE materials (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			package_price REAL NOT NULL DEFAULT 0,
			package_qty REAL NOT NULL DEFAULT 1,
			notes TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE fixed_costs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL,
			monthly_amount REAL NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE labor_schedule (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			hours_per_day REAL NOT NULL DEFAULT 0,
			days_per_week REAL NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE orders (
			id TEXT PRIMARY KEY,
			client TEXT NOT NULL,
			category TEXT,
			final_price REAL NOT NULL,
			total_cost REAL NOT NULL,
			created_at TEXT NOT NULL
		);
	`)
	if err != nil {
		t.Fatalf("failed creating schema: %v", err)
	}

	return &server{store: store.New(db), now: func() time.Time { return testNow }}
}

func doJSON(t *testing.T, srv *server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func TestHandlePrice(t *testing.T) {
	srv := newTestServer(t)

	materialID, err := srv.store.CreateMaterial("beads", 10, 5, "")
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	if _, err := srv.store.CreateFixedCost("rent", 800); err != nil {
		t.Fatalf("create fixed cost: %v", err)
	}
	if _, err := srv.store.CreateFixedCost("energy", 208); err != nil {
		t.Fatalf("create fixed cost: %v", err)
	}
	if err := srv.store.UpdateSchedule(pricing.LaborSchedule{HoursPerDay: 8, DaysPerWeek: 5}); err != nil {
		t.Fatalf("update schedule: %v", err)
	}

	rec := doJSON(t, srv, "POST", "/api/price", map[string]any{
		"name":               "necklace",
		"production_minutes": 30,
		"packaging_cost":     1,
		"margin_pct":         30,
		"fee_pct":            5,
		"recipe": []map[string]any{
			{"material_id": materialID, "qty_used": 2},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result pricing.Result
	decodeBody(t, rec, &result)

	// Hourly rate is 1008 / 168 = 6, so labor is 3 and total cost is 8.
	if math.Abs(result.TotalCost-8) > 1e-9 {
		t.Fatalf("totalCost = %v, want 8", result.TotalCost)
	}
	if math.Abs(result.SalePrice-8/0.65) > 1e-9 {
		t.Fatalf("salePrice = %v, want %v", result.SalePrice, 8/0.65)
	}
}

func TestHandlePrice_InvalidMargin(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/price", map[string]any{
		"packaging_cost": 1,
		"margin_pct":     60,
		"fee_pct":        40,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePrice_UnknownMaterial(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/price", map[string]any{
		"margin_pct": 30,
		"recipe": []map[string]any{
			{"material_id": 42, "qty_used": 1},
		},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBreakEven(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/breakeven", map[string]any{
		"fixed_monthly":      5000,
		"unit_variable_cost": 200,
		"unit_price":         400,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result pricing.BreakEvenResult
	decodeBody(t, rec, &result)
	if result.Units != 25 {
		t.Fatalf("units = %d, want 25", result.Units)
	}
}

func TestHandleBreakEven_InvalidPricing(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/breakeven", map[string]any{
		"fixed_monthly":      5000,
		"unit_variable_cost": 400,
		"unit_price":         300,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCompetitive_BadPositioning(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/competitive", map[string]any{
		"base_cost":         370,
		"competitor_prices": []float64{400},
		"positioning":       "aggressive",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleSeasonality_MonthNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/seasonality", map[string]any{
		"history": []map[string]any{{"month": 1, "units_sold": 100}},
		"month":   7,
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleMonthlyReport(t *testing.T) {
	srv := newTestServer(t)

	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if _, err := srv.store.CreateOrder("Cliente A", "artesanato", 500, 300, created); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := srv.store.CreateOrder("Cliente B", "costura", 800, 500, created.Add(time.Hour)); err != nil {
		t.Fatalf("create order: %v", err)
	}

	rec := doJSON(t, srv, "GET", "/api/reports/monthly?year=2024&month=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var rep report.MonthlyReport
	decodeBody(t, rec, &rep)
	if rep.Orders != 2 || rep.Revenue != 1300 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestHandleMonthlyReport_NoData(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/api/reports/monthly?year=2024&month=7", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleProjection_InsufficientData(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/api/reports/projection", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestMaterialsCreateAndUpdate(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/materials", map[string]any{
		"name":          "fabric",
		"package_price": 37.9,
		"package_qty":   3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created map[string]int64
	decodeBody(t, rec, &created)

	rec = doJSON(t, srv, "POST", "/api/materials/1", map[string]any{
		"name":          "fabric",
		"package_price": 40,
		"package_qty":   3,
		"active":        false,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	m, err := srv.store.GetMaterial(created["id"])
	if err != nil {
		t.Fatalf("get material: %v", err)
	}
	if m.PackagePrice != 40 || m.Active {
		t.Fatalf("unexpected material after update: %+v", m)
	}
}

func TestMaterialsCreate_RejectsInvalidPackageQty(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/materials", map[string]any{
		"name":          "broken",
		"package_price": 10,
		"package_qty":   0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestScheduleUpdateAndGet(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "PUT", "/api/schedule", map[string]any{
		"hours_per_day": 6,
		"days_per_week": 4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, "GET", "/api/schedule", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var schedule pricing.LaborSchedule
	decodeBody(t, rec, &schedule)
	if schedule.HoursPerDay != 6 || schedule.DaysPerWeek != 4 {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}
}

func TestOrdersCreateAndList(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/api/orders", map[string]any{
		"client":      "Cliente A",
		"category":    "artesanato",
		"final_price": 500,
		"total_cost":  300,
		"created_at":  "2024-01-15T10:00:00Z",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, "GET", "/api/orders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var orders []report.Order
	decodeBody(t, rec, &orders)
	if len(orders) != 1 || orders[0].Client != "Cliente A" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	if !orders[0].CreatedAt.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected createdAt: %v", orders[0].CreatedAt)
	}
}
