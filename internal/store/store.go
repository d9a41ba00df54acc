// Package store is the SQLite record store behind the pricing engine
// and the reporting engine. It owns all persistence; the computation
// packages only ever see snapshots read from here.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CaioBPQ/precificacao/internal/pricing"
	"github.com/CaioBPQ/precificacao/internal/report"
)

// Store wraps the application database.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by the given database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// MaterialRecord is a persisted material with its row identity.
type MaterialRecord struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	PackagePrice float64 `json:"package_price"`
	PackageQty   float64 `json:"package_qty"`
	Notes        string  `json:"notes"`
	Active       bool    `json:"active"`
}

// Material converts the record into the engine's material type.
func (m MaterialRecord) Material() pricing.Material {
	return pricing.Material{
		Name:         m.Name,
		PackagePrice: m.PackagePrice,
		PackageQty:   m.PackageQty,
	}
}

// FixedCostRecord is a persisted fixed cost with its row identity.
type FixedCostRecord struct {
	ID            int64   `json:"id"`
	Description   string  `json:"description"`
	MonthlyAmount float64 `json:"monthly_amount"`
	Active        bool    `json:"active"`
}

// ListMaterials returns all materials, newest first.
func (s *Store) ListMaterials() ([]MaterialRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, package_price, package_qty, COALESCE(notes, ''), active
		FROM materials
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]MaterialRecord, 0)
	for rows.Next() {
		var m MaterialRecord
		if err := rows.Scan(&m.ID, &m.Name, &m.PackagePrice, &m.PackageQty, &m.Notes, &m.Active); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}

// GetMaterial returns one material by id. sql.ErrNoRows passes
// through when the id does not exist.
func (s *Store) GetMaterial(id int64) (MaterialRecord, error) {
	var m MaterialRecord
	err := s.db.QueryRow(`
		SELECT id, name, package_price, package_qty, COALESCE(notes, ''), active
		FROM materials
		WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.PackagePrice, &m.PackageQty, &m.Notes, &m.Active)
	if err != nil {
		return MaterialRecord{}, err
	}
	return m, nil
}

// CreateMaterial inserts a new active material and returns its id.
func (s *Store) CreateMaterial(name string, packagePrice, packageQty float64, notes string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO materials (name, package_price, package_qty, notes, active)
		VALUES (?, ?, ?, ?, TRUE)
	`, name, packagePrice, packageQty, notes)
	if err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("material insert id: %w", err)
	}
	return id, nil
}

// UpdateMaterial overwrites a material row. It reports whether the
// row existed.
func (s *Store) UpdateMaterial(m MaterialRecord) (bool, error) {
	result, err := s.db.Exec(`
		UPDATE materials
		SET
			name = ?,
			package_price = ?,
			package_qty = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, m.Name, m.PackagePrice, m.PackageQty, m.Notes, m.Active, m.ID)
	if err != nil {
		return false, fmt.Errorf("update material: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update material rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListFixedCosts returns all fixed costs, newest first.
func (s *Store) ListFixedCosts() ([]FixedCostRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, description, monthly_amount, active
		FROM fixed_costs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query fixed costs: %w", err)
	}
	defer rows.Close()

	costs := make([]FixedCostRecord, 0)
	for rows.Next() {
		var fc FixedCostRecord
		if err := rows.Scan(&fc.ID, &fc.Description, &fc.MonthlyAmount, &fc.Active); err != nil {
			return nil, fmt.Errorf("scan fixed cost: %w", err)
		}
		costs = append(costs, fc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixed costs: %w", err)
	}

	return costs, nil
}

// CreateFixedCost inserts a new active fixed cost and returns its id.
func (s *Store) CreateFixedCost(description string, monthlyAmount float64) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO fixed_costs (description, monthly_amount, active)
		VALUES (?, ?, TRUE)
	`, description, monthlyAmount)
	if err != nil {
		return 0, fmt.Errorf("insert fixed cost: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fixed cost insert id: %w", err)
	}
	return id, nil
}

// EnsureSchedule inserts the labor-schedule singleton row when it is
// missing, with a zero-hour schedule.
func (s *Store) EnsureSchedule() error {
	_, err := s.db.Exec(`
		INSERT INTO labor_schedule (id, hours_per_day, days_per_week)
		VALUES (1, 0, 0)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("insert default labor schedule: %w", err)
	}
	return nil
}

// Schedule reads the labor-schedule singleton.
func (s *Store) Schedule() (pricing.LaborSchedule, error) {
	if err := s.EnsureSchedule(); err != nil {
		return pricing.LaborSchedule{}, err
	}

	var schedule pricing.LaborSchedule
	err := s.db.QueryRow(`
		SELECT hours_per_day, days_per_week
		FROM labor_schedule
		WHERE id = 1
	`).Scan(&schedule.HoursPerDay, &schedule.DaysPerWeek)
	if err != nil {
		return pricing.LaborSchedule{}, fmt.Errorf("query labor schedule: %w", err)
	}
	return schedule, nil
}

// UpdateSchedule overwrites the labor-schedule singleton.
func (s *Store) UpdateSchedule(schedule pricing.LaborSchedule) error {
	if err := s.EnsureSchedule(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		UPDATE labor_schedule
		SET
			hours_per_day = ?,
			days_per_week = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, schedule.HoursPerDay, schedule.DaysPerWeek)
	if err != nil {
		return fmt.Errorf("update labor schedule: %w", err)
	}
	return nil
}

// PricingConfig assembles the engine configuration from the active
// fixed costs and the labor-schedule singleton. An empty fixed-cost
// list and a zero-hour schedule are both valid.
func (s *Store) PricingConfig() (pricing.Config, error) {
	schedule, err := s.Schedule()
	if err != nil {
		return pricing.Config{}, err
	}

	rows, err := s.db.Query(`
		SELECT description, monthly_amount
		FROM fixed_costs
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return pricing.Config{}, fmt.Errorf("query active fixed costs: %w", err)
	}
	defer rows.Close()

	cfg := pricing.Config{Schedule: schedule}
	for rows.Next() {
		var fc pricing.FixedCost
		if err := rows.Scan(&fc.Description, &fc.MonthlyAmount); err != nil {
			return pricing.Config{}, fmt.Errorf("scan fixed cost: %w", err)
		}
		cfg.FixedCosts = append(cfg.FixedCosts, fc)
	}

	if err := rows.Err(); err != nil {
		return pricing.Config{}, fmt.Errorf("iterate fixed costs: %w", err)
	}

	return cfg, nil
}

// ListOrders returns all order records in insertion order.
func (s *Store) ListOrders() ([]report.Order, error) {
	rows, err := s.db.Query(`
		SELECT id, client, COALESCE(category, ''), final_price, total_cost, created_at
		FROM orders
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]report.Order, 0)
	for rows.Next() {
		var o report.Order
		var createdAt string
		if err := rows.Scan(&o.ID, &o.Client, &o.Category, &o.FinalPrice, &o.TotalCost, &createdAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse order %s timestamp: %w", o.ID, err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// CreateOrder persists a priced order and returns its generated id.
// Timestamps are stored as RFC 3339 in UTC.
func (s *Store) CreateOrder(client, category string, finalPrice, totalCost float64, createdAt time.Time) (string, error) {
	id := uuid.NewString()

	_, err := s.db.Exec(`
		INSERT INTO orders (id, client, category, final_price, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, client, category, finalPrice, totalCost, createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	return id, nil
}
