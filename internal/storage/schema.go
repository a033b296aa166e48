package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile (
			key TEXT PRIMARY KEY,
			xp INTEGER DEFAULT 0,
			level INTEGER DEFAULT 1,
			energy REAL DEFAULT 100,
			max_energy REAL DEFAULT 100,
			last_regen_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			pod_active INTEGER DEFAULT 0,
			pod_started_at DATETIME,
			daily_streak INTEGER DEFAULT 0,
			last_rollover_day TEXT,
			timezone TEXT DEFAULT 'UTC',
			neurodivergent_mode INTEGER DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			unit TEXT NOT NULL,
			measurement TEXT NOT NULL,

			current_daily_goal REAL NOT NULL,
			frequency_per_week INTEGER DEFAULT 7,
			days_of_week TEXT,

			is_fixed INTEGER DEFAULT 0,
			is_trial_mode INTEGER DEFAULT 1,
			growth_type TEXT DEFAULT 'percentage',
			growth_value REAL DEFAULT 10,
			max_goal_cap REAL,
			confidence_check INTEGER DEFAULT 5,
			completions_in_plateau INTEGER DEFAULT 0,
			plateau_days_required INTEGER NOT NULL,
			last_plateau_start_day TEXT,
			last_goal_increase_day TEXT,
			is_frozen INTEGER DEFAULT 0,

			carryover_enabled INTEGER DEFAULT 0,
			carryover_policy TEXT DEFAULT 'rollover',
			carryover_value REAL DEFAULT 0,

			auto_chunking INTEGER DEFAULT 1,
			enable_chunks INTEGER DEFAULT 1,
			num_chunks INTEGER DEFAULT 1,
			chunk_duration REAL DEFAULT 0,

			depends_on TEXT,
			xp_per_unit REAL DEFAULT 1,
			energy_cost_per_unit REAL DEFAULT 0,

			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			deleted_at DATETIME,

			FOREIGN KEY(depends_on) REFERENCES habits(key)
		);`,
		// Append-only event log; reversal deletes a row by its UUID.
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			habit_key TEXT NOT NULL,
			value REAL NOT NULL,
			duration_secs INTEGER DEFAULT 0,
			xp_earned INTEGER NOT NULL,
			energy_cost REAL DEFAULT 0,
			completed_at DATETIME NOT NULL,
			note TEXT,
			FOREIGN KEY(habit_key) REFERENCES habits(key)
		);`,
		`CREATE TABLE IF NOT EXISTS capsules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			habit_key TEXT NOT NULL,
			day TEXT NOT NULL,
			idx INTEGER NOT NULL,
			value REAL NOT NULL,
			completed INTEGER DEFAULT 0,
			scheduled_time TEXT,
			mood TEXT,
			FOREIGN KEY(habit_key) REFERENCES habits(key)
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_capsules_habit_day_idx ON capsules(habit_key, day, idx);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_completed_at ON completions(habit_key, completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_deleted_at ON habits(deleted_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the initial schema (ignore if already present).
	alterStmts := []string{
		`ALTER TABLE habits ADD COLUMN is_frozen INTEGER DEFAULT 0;`,
		`ALTER TABLE habits ADD COLUMN carryover_policy TEXT DEFAULT 'rollover';`,
		`ALTER TABLE completions ADD COLUMN duration_secs INTEGER DEFAULT 0;`,
		`ALTER TABLE profile ADD COLUMN last_rollover_day TEXT;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
