package engine

import (
	"context"
	"fmt"
)

// SetGoal manually overrides a habit's daily goal. The plateau window
// restarts: a hand-set goal means the old consistency evidence no longer
// applies to it. Frozen habits refuse the change.
func (s *Service) SetGoal(ctx context.Context, habitKey string, goal float64) error {
	if goal <= 0 {
		return fmt.Errorf("daily goal must be positive")
	}
	h, err := s.getHabit(ctx, habitKey)
	if err != nil {
		return err
	}
	if h.IsFrozen {
		return FrozenError{HabitKey: h.Key}
	}

	p, err := s.getProfile(ctx)
	if err != nil {
		return err
	}
	tc := s.timeContext(p)

	h.CurrentDailyGoal = goal
	h.CompletionsInPlateau = 0
	today := tc.Day()
	h.LastPlateauStartDay = &today
	if err := s.habits.Update(ctx, h); err != nil {
		return err
	}

	if h.EnableChunks {
		_, sum, err := s.countCompletionsToday(ctx, tc, h.Key)
		if err != nil {
			return err
		}
		plan := s.planFor(h)
		filled := CompletedChunks(plan, h.AdjustedDailyGoal(), sum)
		return s.writeCapsules(ctx, h, today, plan, filled)
	}
	return nil
}

// SetFrozen pauses or resumes growth. The plateau counter keeps tracking
// while frozen; only promotions and increments are suppressed.
func (s *Service) SetFrozen(ctx context.Context, habitKey string, frozen bool) error {
	h, err := s.getHabit(ctx, habitKey)
	if err != nil {
		return err
	}
	h.IsFrozen = frozen
	return s.habits.Update(ctx, h)
}

// TagCapsuleMood attaches a mood note to one of today's capsules.
func (s *Service) TagCapsuleMood(ctx context.Context, habitKey string, idx int, mood string) error {
	h, err := s.getHabit(ctx, habitKey)
	if err != nil {
		return err
	}
	p, err := s.getProfile(ctx)
	if err != nil {
		return err
	}
	tc := s.timeContext(p)

	day := tc.Day()
	caps, err := s.capsules.ListForDay(ctx, h.Key, day)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(caps) {
		return fmt.Errorf("habit %q has %d capsules today", h.Key, len(caps))
	}
	return s.capsules.SetMood(ctx, h.Key, day, idx, mood)
}

// SetChunking updates chunk settings and replans today's capsules.
func (s *Service) SetChunking(ctx context.Context, habitKey string, auto bool, numChunks int, chunkDuration float64) error {
	h, err := s.getHabit(ctx, habitKey)
	if err != nil {
		return err
	}
	if !auto && numChunks < 1 {
		return fmt.Errorf("manual chunking needs at least 1 chunk")
	}

	p, err := s.getProfile(ctx)
	if err != nil {
		return err
	}
	tc := s.timeContext(p)

	h.AutoChunking = auto
	h.EnableChunks = true
	h.NumChunks = numChunks
	h.ChunkDuration = chunkDuration
	if err := s.habits.Update(ctx, h); err != nil {
		return err
	}

	_, sum, err := s.countCompletionsToday(ctx, tc, h.Key)
	if err != nil {
		return err
	}
	plan := s.planFor(h)
	filled := CompletedChunks(plan, h.AdjustedDailyGoal(), sum)
	return s.writeCapsules(ctx, h, tc.Day(), plan, filled)
}
