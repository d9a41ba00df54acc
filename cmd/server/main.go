package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CaioBPQ/precificacao/internal/config"
	"github.com/CaioBPQ/precificacao/internal/db"
	"github.com/CaioBPQ/precificacao/internal/migrations"
	"github.com/CaioBPQ/precificacao/internal/pricing"
	"github.com/CaioBPQ/precificacao/internal/report"
	"github.com/CaioBPQ/precificacao/internal/seed"
	"github.com/CaioBPQ/precificacao/internal/store"
)

type server struct {
	store *store.Store
	now   func() time.Time
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		log.Fatalf("failed to run startup seed: %v", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seed inserted %d default rows", stats.Inserts)
	}

	srv := &server{store: store.New(database), now: time.Now}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/api/price", s.handlePrice)
	r.Post("/api/competitive", s.handleCompetitive)
	r.Post("/api/breakeven", s.handleBreakEven)
	r.Post("/api/scenarios", s.handleScenarios)
	r.Post("/api/discount", s.handleDiscount)
	r.Post("/api/seasonality", s.handleSeasonality)

	r.Get("/api/reports/monthly", s.handleMonthlyReport)
	r.Get("/api/reports/trends", s.handleTrendsReport)
	r.Get("/api/reports/projection", s.handleProjectionReport)
	r.Get("/api/reports/categories", s.handleCategoryReport)

	r.Get("/api/materials", s.handleMaterialsList)
	r.Post("/api/materials", s.handleMaterialsCreate)
	r.Post("/api/materials/{id}", s.handleMaterialsUpdate)
	r.Get("/api/fixed-costs", s.handleFixedCostsList)
	r.Post("/api/fixed-costs", s.handleFixedCostsCreate)
	r.Get("/api/schedule", s.handleScheduleGet)
	r.Put("/api/schedule", s.handleScheduleUpdate)
	r.Get("/api/orders", s.handleOrdersList)
	r.Post("/api/orders", s.handleOrdersCreate)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeCoreError maps an engine failure onto an HTTP status. Every
// error kind from the computation packages reaches the client as a
// readable message.
func writeCoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pricing.ErrInvalidMargin),
		errors.Is(err, pricing.ErrInvalidMaterial),
		errors.Is(err, pricing.ErrInvalidPricing),
		errors.Is(err, pricing.ErrEmptyInput):
		status = http.StatusBadRequest
	case errors.Is(err, pricing.ErrMonthNotFound),
		errors.Is(err, report.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, report.ErrInsufficientData):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, err.Error())
}
