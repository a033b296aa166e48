package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type HabitRepo struct {
	db *sql.DB
}

func NewHabitRepo(db *sql.DB) *HabitRepo {
	return &HabitRepo{db: db}
}

const habitColumns = `key, name, category, unit, measurement,
	current_daily_goal, frequency_per_week, days_of_week,
	is_fixed, is_trial_mode, growth_type, growth_value, max_goal_cap,
	confidence_check, completions_in_plateau, plateau_days_required,
	last_plateau_start_day, last_goal_increase_day, is_frozen,
	carryover_enabled, carryover_policy, carryover_value,
	auto_chunking, enable_chunks, num_chunks, chunk_duration,
	depends_on, xp_per_unit, energy_cost_per_unit, created_at, deleted_at`

func (r *HabitRepo) Insert(ctx context.Context, h *Habit) error {
	daysJSON, err := marshalDays(h.DaysOfWeek)
	if err != nil {
		return err
	}
	isFixed, isTrial := modeToBools(h.GoalMode)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO habits (
			key, name, category, unit, measurement,
			current_daily_goal, frequency_per_week, days_of_week,
			is_fixed, is_trial_mode, growth_type, growth_value, max_goal_cap,
			confidence_check, completions_in_plateau, plateau_days_required,
			last_plateau_start_day, last_goal_increase_day, is_frozen,
			carryover_enabled, carryover_policy, carryover_value,
			auto_chunking, enable_chunks, num_chunks, chunk_duration,
			depends_on, xp_per_unit, energy_cost_per_unit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		h.Key, h.Name, h.Category, h.Unit, h.Measurement,
		h.CurrentDailyGoal, h.FrequencyPerWeek, daysJSON,
		boolToInt(isFixed), boolToInt(isTrial), h.GrowthType, h.GrowthValue, h.MaxGoalCap,
		h.ConfidenceCheck, h.CompletionsInPlateau, h.PlateauDaysRequired,
		h.LastPlateauStartDay, h.LastGoalIncreaseDay, boolToInt(h.IsFrozen),
		boolToInt(h.CarryoverEnabled), h.CarryoverPolicy, h.CarryoverValue,
		boolToInt(h.AutoChunking), boolToInt(h.EnableChunks), h.NumChunks, h.ChunkDuration,
		h.DependsOn, h.XPPerUnit, h.EnergyCostPerUnit,
	)
	if err != nil {
		return fmt.Errorf("habit insert: %w", err)
	}
	return nil
}

func (r *HabitRepo) Get(ctx context.Context, key string) (*Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE key = ? AND deleted_at IS NULL
	`, key)
	return scanHabitRow(row)
}

func (r *HabitRepo) ListActive(ctx context.Context) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+habitColumns+` FROM habits WHERE deleted_at IS NULL ORDER BY created_at ASC, key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("habit list: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		h, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("habit list rows: %w", err)
	}
	return out, nil
}

func (r *HabitRepo) Update(ctx context.Context, h *Habit) error {
	daysJSON, err := marshalDays(h.DaysOfWeek)
	if err != nil {
		return err
	}
	isFixed, isTrial := modeToBools(h.GoalMode)

	_, err = r.db.ExecContext(ctx, `
		UPDATE habits SET
			name = ?, category = ?, unit = ?, measurement = ?,
			current_daily_goal = ?, frequency_per_week = ?, days_of_week = ?,
			is_fixed = ?, is_trial_mode = ?, growth_type = ?, growth_value = ?, max_goal_cap = ?,
			confidence_check = ?, completions_in_plateau = ?, plateau_days_required = ?,
			last_plateau_start_day = ?, last_goal_increase_day = ?, is_frozen = ?,
			carryover_enabled = ?, carryover_policy = ?, carryover_value = ?,
			auto_chunking = ?, enable_chunks = ?, num_chunks = ?, chunk_duration = ?,
			depends_on = ?, xp_per_unit = ?, energy_cost_per_unit = ?
		WHERE key = ?
	`,
		h.Name, h.Category, h.Unit, h.Measurement,
		h.CurrentDailyGoal, h.FrequencyPerWeek, daysJSON,
		boolToInt(isFixed), boolToInt(isTrial), h.GrowthType, h.GrowthValue, h.MaxGoalCap,
		h.ConfidenceCheck, h.CompletionsInPlateau, h.PlateauDaysRequired,
		h.LastPlateauStartDay, h.LastGoalIncreaseDay, boolToInt(h.IsFrozen),
		boolToInt(h.CarryoverEnabled), h.CarryoverPolicy, h.CarryoverValue,
		boolToInt(h.AutoChunking), boolToInt(h.EnableChunks), h.NumChunks, h.ChunkDuration,
		h.DependsOn, h.XPPerUnit, h.EnergyCostPerUnit,
		h.Key,
	)
	if err != nil {
		return fmt.Errorf("habit update: %w", err)
	}
	return nil
}

// SoftDelete marks a habit deleted and cascades to its capsules. The
// completion log is kept for analytics history.
func (r *HabitRepo) SoftDelete(ctx context.Context, key string, at time.Time) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE habits SET deleted_at = ? WHERE key = ?`, at, key); err != nil {
			return fmt.Errorf("habit soft delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM capsules WHERE habit_key = ?`, key); err != nil {
			return fmt.Errorf("habit capsule cascade: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE habits SET depends_on = NULL WHERE depends_on = ?`, key); err != nil {
			return fmt.Errorf("habit dependency clear: %w", err)
		}
		return nil
	})
}

// DeleteAll removes every habit, capsule and completion. Used by the
// reset-everything maintenance op.
func (r *HabitRepo) DeleteAll(ctx context.Context) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM capsules`,
			`DELETE FROM completions`,
			`DELETE FROM habits`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("reset all: %w", err)
			}
		}
		return nil
	})
}

func marshalDays(days []int) (*string, error) {
	if len(days) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("marshal days_of_week: %w", err)
	}
	s := string(data)
	return &s, nil
}

func modeToBools(mode string) (isFixed, isTrial bool) {
	switch mode {
	case "fixed":
		return true, false
	case "trial":
		return false, true
	default:
		return false, false
	}
}

func modeFromBools(isFixed, isTrial bool) string {
	// Fixed dominates when both booleans are set.
	if isFixed {
		return "fixed"
	}
	if isTrial {
		return "trial"
	}
	return "growth"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabitRow(row scanner) (*Habit, error) {
	var (
		h            Habit
		daysRaw      sql.NullString
		isFixed      int
		isTrial      int
		maxCap       sql.NullFloat64
		plateauStart sql.NullString
		goalIncrease sql.NullString
		isFrozen     int
		carryEnabled int
		autoChunk    int
		enableChunks int
		dependsOn    sql.NullString
		deletedAt    sql.NullTime
	)

	if err := row.Scan(
		&h.Key, &h.Name, &h.Category, &h.Unit, &h.Measurement,
		&h.CurrentDailyGoal, &h.FrequencyPerWeek, &daysRaw,
		&isFixed, &isTrial, &h.GrowthType, &h.GrowthValue, &maxCap,
		&h.ConfidenceCheck, &h.CompletionsInPlateau, &h.PlateauDaysRequired,
		&plateauStart, &goalIncrease, &isFrozen,
		&carryEnabled, &h.CarryoverPolicy, &h.CarryoverValue,
		&autoChunk, &enableChunks, &h.NumChunks, &h.ChunkDuration,
		&dependsOn, &h.XPPerUnit, &h.EnergyCostPerUnit, &h.CreatedAt, &deletedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("habit scan: %w", err)
	}

	h.GoalMode = modeFromBools(isFixed != 0, isTrial != 0)
	h.IsFrozen = isFrozen != 0
	h.CarryoverEnabled = carryEnabled != 0
	h.AutoChunking = autoChunk != 0
	h.EnableChunks = enableChunks != 0

	if daysRaw.Valid && daysRaw.String != "" {
		if err := json.Unmarshal([]byte(daysRaw.String), &h.DaysOfWeek); err != nil {
			return nil, fmt.Errorf("unmarshal days_of_week: %w", err)
		}
	}
	if maxCap.Valid {
		v := maxCap.Float64
		h.MaxGoalCap = &v
	}
	if plateauStart.Valid {
		v := plateauStart.String
		h.LastPlateauStartDay = &v
	}
	if goalIncrease.Valid {
		v := goalIncrease.String
		h.LastGoalIncreaseDay = &v
	}
	if dependsOn.Valid {
		v := dependsOn.String
		h.DependsOn = &v
	}
	if deletedAt.Valid {
		v := deletedAt.Time
		h.DeletedAt = &v
	}
	return &h, nil
}
