package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type CapsuleRepo struct {
	db *sql.DB
}

func NewCapsuleRepo(db *sql.DB) *CapsuleRepo {
	return &CapsuleRepo{db: db}
}

// ReplaceForDay swaps a habit-day's capsule set for a freshly planned one.
// Called whenever the adjusted goal or chunk settings change.
func (r *CapsuleRepo) ReplaceForDay(ctx context.Context, habitKey, day string, capsules []Capsule) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM capsules WHERE habit_key = ? AND day = ?`, habitKey, day); err != nil {
			return fmt.Errorf("capsule clear: %w", err)
		}
		for _, c := range capsules {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO capsules (habit_key, day, idx, value, completed, scheduled_time, mood)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, habitKey, day, c.Idx, c.Value, boolToInt(c.Completed), c.ScheduledTime, c.Mood); err != nil {
				return fmt.Errorf("capsule insert: %w", err)
			}
		}
		return nil
	})
}

func (r *CapsuleRepo) ListForDay(ctx context.Context, habitKey, day string) ([]Capsule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, habit_key, day, idx, value, completed, scheduled_time, mood
		FROM capsules
		WHERE habit_key = ? AND day = ?
		ORDER BY idx ASC
	`, habitKey, day)
	if err != nil {
		return nil, fmt.Errorf("capsule list: %w", err)
	}
	defer rows.Close()
	return collectCapsules(rows)
}

func (r *CapsuleRepo) ListForHabitBetween(ctx context.Context, habitKey, fromDay, toDay string) ([]Capsule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, habit_key, day, idx, value, completed, scheduled_time, mood
		FROM capsules
		WHERE habit_key = ? AND day >= ? AND day < ?
		ORDER BY day ASC, idx ASC
	`, habitKey, fromDay, toDay)
	if err != nil {
		return nil, fmt.Errorf("capsule window list: %w", err)
	}
	defer rows.Close()
	return collectCapsules(rows)
}

// MarkCompleted sets the completed flag on the first n capsules of a
// habit-day and clears it on the rest.
func (r *CapsuleRepo) MarkCompleted(ctx context.Context, habitKey, day string, n int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE capsules SET completed = CASE WHEN idx < ? THEN 1 ELSE 0 END
		WHERE habit_key = ? AND day = ?
	`, n, habitKey, day)
	if err != nil {
		return fmt.Errorf("capsule mark: %w", err)
	}
	return nil
}

func (r *CapsuleRepo) SetMood(ctx context.Context, habitKey, day string, idx int, mood string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE capsules SET mood = ? WHERE habit_key = ? AND day = ? AND idx = ?
	`, mood, habitKey, day, idx)
	if err != nil {
		return fmt.Errorf("capsule mood: %w", err)
	}
	return nil
}

func collectCapsules(rows *sql.Rows) ([]Capsule, error) {
	var out []Capsule
	for rows.Next() {
		var (
			c         Capsule
			completed int
			schedTime sql.NullString
			mood      sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.HabitKey, &c.Day, &c.Idx, &c.Value, &completed, &schedTime, &mood); err != nil {
			return nil, fmt.Errorf("capsule scan: %w", err)
		}
		c.Completed = completed != 0
		if schedTime.Valid {
			v := schedTime.String
			c.ScheduledTime = &v
		}
		if mood.Valid {
			v := mood.String
			c.Mood = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("capsule rows: %w", err)
	}
	return out, nil
}
