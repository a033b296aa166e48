package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type CompletionRepo struct {
	db *sql.DB
}

func NewCompletionRepo(db *sql.DB) *CompletionRepo {
	return &CompletionRepo{db: db}
}

const completionColumns = `id, habit_key, value, duration_secs, xp_earned, energy_cost, completed_at, note`

func (r *CompletionRepo) Insert(ctx context.Context, c *Completion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completions (id, habit_key, value, duration_secs, xp_earned, energy_cost, completed_at, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.HabitKey, c.Value, c.DurationSecs, c.XPEarned, c.EnergyCost, c.CompletedAt, c.Note)
	if err != nil {
		return fmt.Errorf("completion insert: %w", err)
	}
	return nil
}

func (r *CompletionRepo) Get(ctx context.Context, id string) (*Completion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+completionColumns+` FROM completions WHERE id = ?
	`, id)
	return scanCompletionRow(row)
}

func (r *CompletionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("completion delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("completion delete rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LatestForHabitSince returns the most recent completion for a habit at or
// after the given instant, or nil. The CLI uses it to resolve "unlog the
// last thing I did today" into a concrete event ID.
func (r *CompletionRepo) LatestForHabitSince(ctx context.Context, habitKey string, since time.Time) (*Completion, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+completionColumns+`
		FROM completions
		WHERE habit_key = ? AND completed_at >= ?
		ORDER BY completed_at DESC
		LIMIT 1
	`, habitKey, since)
	return scanCompletionRow(row)
}

func (r *CompletionRepo) ListForHabitBetween(ctx context.Context, habitKey string, from, to time.Time) ([]Completion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+completionColumns+`
		FROM completions
		WHERE habit_key = ? AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at ASC
	`, habitKey, from, to)
	if err != nil {
		return nil, fmt.Errorf("completion list: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		c, err := scanCompletionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion list rows: %w", err)
	}
	return out, nil
}

// SumForHabitBetween returns the total logged value in [from, to).
func (r *CompletionRepo) SumForHabitBetween(ctx context.Context, habitKey string, from, to time.Time) (float64, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(value), 0)
		FROM completions
		WHERE habit_key = ? AND completed_at >= ? AND completed_at < ?
	`, habitKey, from, to)
	var sum float64
	if err := row.Scan(&sum); err != nil {
		return 0, fmt.Errorf("completion sum: %w", err)
	}
	return sum, nil
}

func (r *CompletionRepo) CountForHabit(ctx context.Context, habitKey string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions WHERE habit_key = ?`, habitKey)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count: %w", err)
	}
	return n, nil
}

func (r *CompletionRepo) CountAll(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM completions`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count all: %w", err)
	}
	return n, nil
}

func scanCompletionRow(row scanner) (*Completion, error) {
	var (
		c    Completion
		note sql.NullString
	)
	if err := row.Scan(&c.ID, &c.HabitKey, &c.Value, &c.DurationSecs, &c.XPEarned, &c.EnergyCost, &c.CompletedAt, &note); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("completion scan: %w", err)
	}
	if note.Valid {
		v := note.String
		c.Note = &v
	}
	return &c, nil
}
