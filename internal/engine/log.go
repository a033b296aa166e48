package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"growthcoach/internal/storage"
)

type LogInput struct {
	HabitKey     string
	Amount       float64 // habit units; defaults to the whole goal for binary habits, else 1
	DurationSecs int     // raw seconds for timer habits
	Note         string
}

type LogResult struct {
	EventID  string
	HabitKey string

	XPAwarded   int
	EnergySpent float64
	LevelBefore int
	LevelAfter  int
	LevelUp     bool

	ProgressToday  float64
	AdjustedGoal   float64
	GoalMet        bool
	CapsulesFilled int
	CapsulesTotal  int

	PlateauCounted       bool
	CompletionsInPlateau int
}

// LogCompletion records one logging action: fills capsules, advances the
// plateau counter (at most once per local day, scheduled days only),
// awards XP, spends energy and appends an immutable completion event.
func (s *Service) LogCompletion(ctx context.Context, in LogInput) (*LogResult, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	levelBefore := p.Level
	tc := s.timeContext(p)

	h, err := s.getHabit(ctx, in.HabitKey)
	if err != nil {
		return nil, err
	}

	if h.DependsOn != nil {
		locked, err := s.dependencyLocked(ctx, tc, h)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, DependencyLockedError{HabitKey: h.Key, DependsOn: *h.DependsOn}
		}
	}

	amount := in.Amount
	if amount <= 0 {
		if MeasurementType(h.Measurement) == MeasurementBinary {
			amount = h.AdjustedDailyGoal()
		} else {
			amount = 1
		}
	}
	if in.DurationSecs > 0 && MeasurementType(h.Measurement) == MeasurementTimer {
		amount = float64(in.DurationSecs) / 60
	}

	countBefore, sumBefore, err := s.countCompletionsToday(ctx, tc, h.Key)
	if err != nil {
		return nil, err
	}

	xp := int(math.Round(h.XPPerUnit * amount))
	if xp < 1 {
		xp = 1
	}
	energyCost := h.EnergyCostPerUnit * amount

	// Plateau clock: first completion on a scheduled day counts, once.
	counted := false
	if countBefore == 0 && ScheduledOn(weekdaysOf(h.DaysOfWeek), tc.Weekday()) {
		h.CompletionsInPlateau++
		counted = true
	}

	progress := sumBefore + amount
	adjusted := h.AdjustedDailyGoal()
	plan := s.planFor(h)
	filled := CompletedChunks(plan, adjusted, progress)

	event := &storage.Completion{
		ID:           uuid.NewString(),
		HabitKey:     h.Key,
		Value:        amount,
		DurationSecs: in.DurationSecs,
		XPEarned:     xp,
		EnergyCost:   energyCost,
		CompletedAt:  tc.Now,
	}
	if in.Note != "" {
		note := in.Note
		event.Note = &note
	}
	if err := s.completions.Insert(ctx, event); err != nil {
		return nil, err
	}
	if err := s.habits.Update(ctx, h); err != nil {
		return nil, err
	}
	if h.EnableChunks {
		if err := s.syncCapsules(ctx, tc, h, filled); err != nil {
			return nil, err
		}
	}

	es := AccrueEnergy(s.tuning, energyState(p), tc.Now)
	es = SpendEnergy(es, energyCost)
	applyEnergyState(p, es)
	p.XP += xp
	p.Level = LevelForXP(p.XP)
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}

	return &LogResult{
		EventID:              event.ID,
		HabitKey:             h.Key,
		XPAwarded:            xp,
		EnergySpent:          energyCost,
		LevelBefore:          levelBefore,
		LevelAfter:           p.Level,
		LevelUp:              p.Level > levelBefore,
		ProgressToday:        progress,
		AdjustedGoal:         adjusted,
		GoalMet:              progress >= adjusted,
		CapsulesFilled:       filled,
		CapsulesTotal:        plan.NumChunks,
		PlateauCounted:       counted,
		CompletionsInPlateau: h.CompletionsInPlateau,
	}, nil
}

type UnlogResult struct {
	EventID  string
	HabitKey string

	XPDeducted     int
	EnergyRefunded float64
	LevelBefore    int
	LevelAfter     int
	LevelDown      bool

	PlateauUncounted bool
}

// UnlogCompletion reverses one specific completion event by ID. Targeting
// an explicit event keeps the reversal unambiguous even when several logs
// landed the same day.
func (s *Service) UnlogCompletion(ctx context.Context, eventID string) (*UnlogResult, error) {
	p, err := s.getProfile(ctx)
	if err != nil {
		return nil, err
	}
	levelBefore := p.Level
	tc := s.timeContext(p)

	event, err := s.completions.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, NotFoundError{Kind: "completion event", Key: eventID}
	}

	if err := s.completions.Delete(ctx, eventID); err != nil {
		return nil, fmt.Errorf("delete completion: %w", err)
	}

	res := &UnlogResult{EventID: eventID, HabitKey: event.HabitKey, XPDeducted: event.XPEarned, EnergyRefunded: event.EnergyCost}

	// The habit may have been soft-deleted since; profile bookkeeping
	// still applies.
	h, err := s.habits.Get(ctx, event.HabitKey)
	if err != nil {
		return nil, err
	}
	if h != nil && tc.DayOf(event.CompletedAt) == tc.Day() {
		count, sum, err := s.countCompletionsToday(ctx, tc, h.Key)
		if err != nil {
			return nil, err
		}
		if count == 0 && ScheduledOn(weekdaysOf(h.DaysOfWeek), tc.Weekday()) && h.CompletionsInPlateau > 0 {
			h.CompletionsInPlateau--
			res.PlateauUncounted = true
		}
		if err := s.habits.Update(ctx, h); err != nil {
			return nil, err
		}
		if h.EnableChunks {
			plan := s.planFor(h)
			filled := CompletedChunks(plan, h.AdjustedDailyGoal(), sum)
			if err := s.syncCapsules(ctx, tc, h, filled); err != nil {
				return nil, err
			}
		}
	}

	es := AccrueEnergy(s.tuning, energyState(p), tc.Now)
	es = RefundEnergy(es, event.EnergyCost)
	applyEnergyState(p, es)
	p.XP -= event.XPEarned
	if p.XP < 0 {
		p.XP = 0
	}
	p.Level = LevelForXP(p.XP)
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}

	res.LevelBefore = levelBefore
	res.LevelAfter = p.Level
	res.LevelDown = p.Level < levelBefore
	return res, nil
}

// dependencyLocked reports whether the habit's prerequisite is still
// short of its adjusted goal today.
func (s *Service) dependencyLocked(ctx context.Context, tc TimeContext, h *storage.Habit) (bool, error) {
	dep, err := s.habits.Get(ctx, *h.DependsOn)
	if err != nil {
		return false, err
	}
	if dep == nil {
		// Prerequisite was deleted; treat the habit as unlocked.
		return false, nil
	}
	from, to := dayBounds(tc, 0)
	sum, err := s.completions.SumForHabitBetween(ctx, dep.Key, from, to)
	if err != nil {
		return false, err
	}
	return sum < dep.AdjustedDailyGoal(), nil
}

// syncCapsules makes today's capsule rows match the current plan and fill
// count, recreating them when the layout changed.
func (s *Service) syncCapsules(ctx context.Context, tc TimeContext, h *storage.Habit, filled int) error {
	day := tc.Day()
	plan := s.planFor(h)
	existing, err := s.capsules.ListForDay(ctx, h.Key, day)
	if err != nil {
		return err
	}
	if len(existing) != plan.NumChunks {
		return s.writeCapsules(ctx, h, day, plan, filled)
	}
	return s.capsules.MarkCompleted(ctx, h.Key, day, filled)
}
