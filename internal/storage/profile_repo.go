package storage

import (
	"context"
	"database/sql"
	"fmt"
)

const MainProfileKey = "main_user"

type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `key, xp, level, energy, max_energy, last_regen_at, pod_active, pod_started_at, daily_streak, last_rollover_day, timezone, neurodivergent_mode`

func (r *ProfileRepo) Get(ctx context.Context, key string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profile WHERE key = ?`, key)

	var (
		p           Profile
		podActive   int
		podStarted  sql.NullTime
		rolloverDay sql.NullString
		ndMode      int
	)
	if err := row.Scan(
		&p.Key, &p.XP, &p.Level, &p.Energy, &p.MaxEnergy, &p.LastRegenAt,
		&podActive, &podStarted, &p.DailyStreak, &rolloverDay, &p.Timezone, &ndMode,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile get: %w", err)
	}
	p.PodActive = podActive != 0
	p.NeurodivergentMode = ndMode != 0
	if podStarted.Valid {
		v := podStarted.Time
		p.PodStartedAt = &v
	}
	if rolloverDay.Valid {
		v := rolloverDay.String
		p.LastRolloverDay = &v
	}
	return &p, nil
}

func (r *ProfileRepo) GetOrCreateMain(ctx context.Context) (*Profile, error) {
	p, err := r.Get(ctx, MainProfileKey)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO profile (key) VALUES (?)`, MainProfileKey); err != nil {
		return nil, fmt.Errorf("profile insert: %w", err)
	}
	return r.Get(ctx, MainProfileKey)
}

func (r *ProfileRepo) Update(ctx context.Context, p *Profile) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profile
		SET xp = ?, level = ?, energy = ?, max_energy = ?, last_regen_at = ?,
			pod_active = ?, pod_started_at = ?, daily_streak = ?,
			last_rollover_day = ?, timezone = ?, neurodivergent_mode = ?
		WHERE key = ?
	`, p.XP, p.Level, p.Energy, p.MaxEnergy, p.LastRegenAt,
		boolToInt(p.PodActive), p.PodStartedAt, p.DailyStreak,
		p.LastRolloverDay, p.Timezone, boolToInt(p.NeurodivergentMode), p.Key)
	if err != nil {
		return fmt.Errorf("profile update: %w", err)
	}
	return nil
}

// ResetExperience zeroes xp/level/streak, leaving habits and history alone.
func (r *ProfileRepo) ResetExperience(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profile SET xp = 0, level = 1, daily_streak = 0 WHERE key = ?
	`, key)
	if err != nil {
		return fmt.Errorf("profile reset xp: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
