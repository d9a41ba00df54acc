package seed

import (
	"database/sql"
	"fmt"
)

const (
	defaultMaterialName  = "Material genérico"
	defaultFixedCostDesc = "Aluguel do ateliê"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way: the
// labor-schedule singleton, one placeholder material and one
// placeholder fixed cost, all inside a single transaction.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureSchedule(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureMaterial(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureFixedCost(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureSchedule(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM labor_schedule WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check labor schedule existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO labor_schedule (id, hours_per_day, days_per_week)
		VALUES (1, 0, 0)
	`); err != nil {
		return fmt.Errorf("insert labor schedule singleton: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureMaterial(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, defaultMaterialName).Scan(&exists); err != nil {
		return fmt.Errorf("check default material existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO materials (name, package_price, package_qty, notes, active)
		VALUES (?, ?, ?, ?, ?)
	`, defaultMaterialName, 0, 1, "", true); err != nil {
		return fmt.Errorf("insert default material: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureFixedCost(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM fixed_costs WHERE description = ? LIMIT 1)`, defaultFixedCostDesc).Scan(&exists); err != nil {
		return fmt.Errorf("check default fixed cost existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO fixed_costs (description, monthly_amount, active)
		VALUES (?, ?, ?)
	`, defaultFixedCostDesc, 0, true); err != nil {
		return fmt.Errorf("insert default fixed cost: %w", err)
	}
	stats.Inserts++
	return nil
}
